package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

// Kind identifies a decoded instruction.
type Kind uint8

const (
	Unknown Kind = iota
	Cls          // 00E0
	Ret          // 00EE
	Jp           // 1NNN
	Call         // 2NNN
	SeByte       // 3XNN
	SneByte      // 4XNN
	SeReg        // 5XY0
	LdByte       // 6XNN
	AddByte      // 7XNN
	LdReg        // 8XY0
	Or           // 8XY1
	And          // 8XY2
	Xor          // 8XY3
	AddReg       // 8XY4
	Sub          // 8XY5
	Shr          // 8XY6
	Subn         // 8XY7
	Shl          // 8XYE
	SneReg       // 9XY0
	LdI          // ANNN
	JpV0         // BNNN
	Rnd          // CXNN
	Drw          // DXYN
	Skp          // EX9E
	Sknp         // EXA1
	LdVxDT       // FX07
	LdVxK        // FX0A
	LdDTVx       // FX15
	LdSTVx       // FX18
	AddI         // FX1E
	LdF          // FX29
	LdB          // FX33
	LdIVx        // FX55
	LdVxI        // FX65
)

var kindNames = [...]string{
	Unknown: "???",
	Cls:     "CLS",
	Ret:     "RET",
	Jp:      "JP",
	Call:    "CALL",
	SeByte:  "SE",
	SneByte: "SNE",
	SeReg:   "SE",
	LdByte:  "LD",
	AddByte: "ADD",
	LdReg:   "LD",
	Or:      "OR",
	And:     "AND",
	Xor:     "XOR",
	AddReg:  "ADD",
	Sub:     "SUB",
	Shr:     "SHR",
	Subn:    "SUBN",
	Shl:     "SHL",
	SneReg:  "SNE",
	LdI:     "LD",
	JpV0:    "JP",
	Rnd:     "RND",
	Drw:     "DRW",
	Skp:     "SKP",
	Sknp:    "SKNP",
	LdVxDT:  "LD",
	LdVxK:   "LD",
	LdDTVx:  "LD",
	LdSTVx:  "LD",
	AddI:    "ADD",
	LdF:     "LD",
	LdB:     "LD",
	LdIVx:   "LD",
	LdVxI:   "LD",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Unknown]
}

// Instruction is a decoded instruction word. Every operand field is always
// extracted; which ones are meaningful depends on Kind.
type Instruction struct {
	Kind   Kind
	Opcode uint16
	X      uint8  // second nibble, register selector
	Y      uint8  // third nibble, register selector
	N      uint8  // low nibble
	NN     uint8  // low byte
	NNN    uint16 // low 12 bits, address
}

func (ins Instruction) String() string {
	return fmt.Sprintf("%04X %s", ins.Opcode, ins.Kind)
}

// Decode dispatches on the high nibble of opcode, then on the low nibble or
// low byte for the families that share a high nibble.
func Decode(opcode uint16) Instruction {
	ins := Instruction{
		Opcode: opcode,
		X:      bit.Nibble(opcode, 2),
		Y:      bit.Nibble(opcode, 1),
		N:      bit.Nibble(opcode, 0),
		NN:     bit.Low(opcode),
		NNN:    bit.Addr(opcode),
	}
	ins.Kind = decodeKind(opcode, ins.N, ins.NN)
	return ins
}

func decodeKind(opcode uint16, n, nn uint8) Kind {
	switch bit.Nibble(opcode, 3) {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return Cls
		case 0x00EE:
			return Ret
		}
	case 0x1:
		return Jp
	case 0x2:
		return Call
	case 0x3:
		return SeByte
	case 0x4:
		return SneByte
	case 0x5:
		if n == 0 {
			return SeReg
		}
	case 0x6:
		return LdByte
	case 0x7:
		return AddByte
	case 0x8:
		switch n {
		case 0x0:
			return LdReg
		case 0x1:
			return Or
		case 0x2:
			return And
		case 0x3:
			return Xor
		case 0x4:
			return AddReg
		case 0x5:
			return Sub
		case 0x6:
			return Shr
		case 0x7:
			return Subn
		case 0xE:
			return Shl
		}
	case 0x9:
		if n == 0 {
			return SneReg
		}
	case 0xA:
		return LdI
	case 0xB:
		return JpV0
	case 0xC:
		return Rnd
	case 0xD:
		return Drw
	case 0xE:
		switch nn {
		case 0x9E:
			return Skp
		case 0xA1:
			return Sknp
		}
	case 0xF:
		switch nn {
		case 0x07:
			return LdVxDT
		case 0x0A:
			return LdVxK
		case 0x15:
			return LdDTVx
		case 0x18:
			return LdSTVx
		case 0x1E:
			return AddI
		case 0x29:
			return LdF
		case 0x33:
			return LdB
		case 0x55:
			return LdIVx
		case 0x65:
			return LdVxI
		}
	}

	return Unknown
}
