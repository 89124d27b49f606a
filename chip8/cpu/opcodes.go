package cpu

import (
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

const vf = addr.FlagRegister

// execute applies ins to the machine state. On error nothing has been
// modified. Unknown instructions are silent no-ops that leave PC in place.
func (c *Interpreter) execute(ins Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.Kind {
	case Cls:
		c.fb.Clear()
		c.advance()
	case Ret:
		return c.ret()
	case Jp:
		c.pc = ins.NNN
	case Call:
		return c.call(ins.NNN)
	case SeByte:
		c.skipIf(c.v[x] == ins.NN)
	case SneByte:
		c.skipIf(c.v[x] != ins.NN)
	case SeReg:
		c.skipIf(c.v[x] == c.v[y])
	case LdByte:
		c.v[x] = ins.NN
		c.advance()
	case AddByte:
		c.v[x] += ins.NN
		c.advance()
	case LdReg:
		c.v[x] = c.v[y]
		c.advance()
	case Or:
		c.v[x] |= c.v[y]
		c.advance()
	case And:
		c.v[x] &= c.v[y]
		c.advance()
	case Xor:
		c.v[x] ^= c.v[y]
		c.advance()
	case AddReg:
		c.addReg(x, y)
	case Sub:
		c.sub(x, y)
	case Shr:
		c.v[vf] = bit.GetBitValue(0, c.v[x])
		c.v[x] >>= 1
		c.advance()
	case Subn:
		_, borrow := bit.CheckedSub(c.v[y], c.v[x])
		c.v[vf] = boolToByte(borrow)
		c.v[x], _ = bit.CheckedSub(c.v[y], c.v[x])
		c.advance()
	case Shl:
		c.v[vf] = bit.GetBitValue(7, c.v[x])
		c.v[x] <<= 1
		c.advance()
	case SneReg:
		c.skipIf(c.v[x] != c.v[y])
	case LdI:
		c.i = ins.NNN
		c.advance()
	case JpV0:
		c.pc = ins.NNN + uint16(c.v[0])
	case Rnd:
		c.v[x] = uint8(c.rng.UintN(256)) & ins.NN
		c.advance()
	case Drw:
		return c.draw(x, y, ins.N)
	case Skp:
		return c.skipOnKey(x, true)
	case Sknp:
		return c.skipOnKey(x, false)
	case LdVxDT:
		c.v[x] = c.delayTimer
		c.advance()
	case LdVxK:
		c.waitKey(x)
	case LdDTVx:
		c.delayTimer = c.v[x]
		c.advance()
	case LdSTVx:
		c.soundTimer = c.v[x]
		c.advance()
	case AddI:
		sum := uint32(c.i) + uint32(c.v[x])
		c.i = uint16(sum)
		c.v[vf] = boolToByte(sum > uint32(addr.MaxAddress))
		c.advance()
	case LdF:
		c.i = memory.GlyphAddress(c.v[x])
		c.advance()
	case LdB:
		return c.storeBCD(x)
	case LdIVx:
		return c.storeRegisters(x)
	case LdVxI:
		return c.loadRegisters(x)
	}

	return nil
}

func (c *Interpreter) advance() {
	c.pc += addr.InstructionSize
}

func (c *Interpreter) skipIf(cond bool) {
	if cond {
		c.pc += 2 * addr.InstructionSize
		return
	}
	c.advance()
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (c *Interpreter) pushStack(value uint16) error {
	if int(c.sp) >= addr.StackDepth {
		return ErrStackOverflow
	}
	c.stack[c.sp] = value
	c.sp++
	return nil
}

func (c *Interpreter) popStack() (uint16, error) {
	if c.sp == 0 {
		return 0, ErrStackUnderflow
	}
	c.sp--
	return c.stack[c.sp], nil
}

// call pushes the address of the call instruction itself; ret adds 2 on the way back.
func (c *Interpreter) call(target uint16) error {
	if err := c.pushStack(c.pc); err != nil {
		return err
	}
	c.pc = target
	return nil
}

func (c *Interpreter) ret() error {
	pc, err := c.popStack()
	if err != nil {
		return err
	}
	c.pc = pc
	c.advance()
	return nil
}

// addReg sets VX to VX+VY, then VF to the carry of the pre-add operands.
func (c *Interpreter) addReg(x, y uint8) {
	result, carry := bit.CheckedAdd(c.v[x], c.v[y])
	c.v[x] = result
	c.v[vf] = boolToByte(carry)
	c.advance()
}

// sub leaves VX untouched when VY > VX, only clearing VF.
func (c *Interpreter) sub(x, y uint8) {
	_, borrow := bit.CheckedSub(c.v[x], c.v[y])
	c.v[vf] = boolToByte(!borrow)
	if !borrow {
		c.v[x] -= c.v[y]
	}
	c.advance()
}

// draw skips entirely when the origin is off screen; otherwise a set bit
// landing outside the display is a fault.
func (c *Interpreter) draw(x, y, n uint8) error {
	px, py := uint(c.v[x]), uint(c.v[y])
	if px >= video.FramebufferWidth || py >= video.FramebufferHeight {
		c.advance()
		return nil
	}

	sprite, err := c.mem.ReadBlock(c.i, int(n))
	if err != nil {
		return err
	}

	collision, err := c.fb.DrawSprite(px, py, sprite)
	if err != nil {
		return drawError(err)
	}

	c.v[vf] = boolToByte(collision)
	c.advance()
	return nil
}

func (c *Interpreter) skipOnKey(x uint8, wantPressed bool) error {
	pressed, err := c.keys.IsPressed(c.v[x])
	if err != nil {
		return err
	}
	c.skipIf(pressed == wantPressed)
	return nil
}

// waitKey completes immediately if a key is already held, otherwise parks
// the interpreter in AwaitingKey without moving PC.
func (c *Interpreter) waitKey(x uint8) {
	if key, ok := c.keys.FirstPressed(); ok {
		c.v[x] = key
		c.advance()
		return
	}
	c.state = AwaitingKey
	c.waitRegister = x
}

func (c *Interpreter) storeBCD(x uint8) error {
	value := c.v[x]
	digits := []byte{
		value / 100,
		(value / 10) % 10,
		(value % 100) % 10,
	}
	if err := c.mem.WriteBlock(c.i, digits); err != nil {
		return err
	}
	c.advance()
	return nil
}

// storeRegisters writes V0..VX at I and moves I past them.
func (c *Interpreter) storeRegisters(x uint8) error {
	if err := c.mem.WriteBlock(c.i, c.v[:x+1]); err != nil {
		return err
	}
	c.i += uint16(x) + 1
	c.advance()
	return nil
}

// loadRegisters reads V0..VX from I and moves I past them.
func (c *Interpreter) loadRegisters(x uint8) error {
	block, err := c.mem.ReadBlock(c.i, int(x)+1)
	if err != nil {
		return err
	}
	copy(c.v[:], block)
	c.i += uint16(x) + 1
	c.advance()
	return nil
}
