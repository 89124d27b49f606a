package video

// TestPatternNames lists the patterns produced by TestPattern, by index.
var TestPatternNames = []string{"Checkerboard", "Stripes", "Diagonal", "Border"}

// TestPatternCount is the number of available test patterns.
const TestPatternCount = 4

const (
	testPatternTileSize    = 4
	testPatternStripeWidth = 2
)

// TestPattern renders pattern (modulo TestPatternCount) shifted by offset
// pixels, used by backends to check a display without running a ROM.
func TestPattern(pattern, offset int) *FrameBuffer {
	fb := NewFrameBuffer()
	for y := 0; y < FramebufferHeight; y++ {
		for x := 0; x < FramebufferWidth; x++ {
			var on bool
			switch pattern % TestPatternCount {
			case 0:
				on = ((x/testPatternTileSize)+(y/testPatternTileSize))%2 == 0
			case 1:
				on = ((x+offset)/testPatternStripeWidth)%2 == 0
			case 2:
				on = ((x+y+offset)/testPatternTileSize)%2 == 0
			case 3:
				on = x == 0 || y == 0 || x == FramebufferWidth-1 || y == FramebufferHeight-1
			}
			if on {
				fb.buffer[y*FramebufferWidth+x] = 1
			}
		}
	}
	return fb
}
