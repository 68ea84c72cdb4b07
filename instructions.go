// Copyright 2014 Eric Holmes.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "fmt"

// Op identifies the operation an Instruction performs. The zero value is
// never produced by Decode; it exists only as the zero value of
// Instruction.
type Op int

const (
	opInvalid Op = iota
	OpClear
	OpReturn
	OpJump
	OpCall
	OpSkipEq
	OpSkipNeq
	OpSkipRegEq
	OpSetRegByte
	OpAdd
	OpCopy
	OpOr
	OpAnd
	OpXor
	OpAddCarry
	OpSubBorrow
	OpShr
	OpSubNBorrow
	OpShl
	OpSkipRegNeq
	OpSetI
	OpJumpOffset
	OpRand
	OpDraw
	OpSkipKey
	OpSkipNotKey
	OpGetDelay
	OpWaitKey
	OpSetDelay
	OpSetSound
	OpAddI
	OpFontAddr
	OpBcd
	OpMemWrite
	OpMemRead
	OpExit
	OpDebug
	OpBreak
)

// Instruction is a decoded CHIP-8 opcode. Rather than a tagged union of
// distinct payload types, a single struct carries every operand field an
// Op might use; which fields are meaningful is determined entirely by Op.
// This mirrors how the opcode itself is laid out: an instruction word is
// always 16 bits wide, it's only the interpretation of the nibbles that
// varies.
type Instruction struct {
	Op  Op
	X   Nibble
	Y   Nibble
	N   Nibble
	KK  byte
	NNN Addr12
}

// Decode interprets a big-endian instruction word (hi, lo) and reports
// whether it is a recognized opcode. Decode never panics on malformed
// input; an unrecognized word simply reports ok=false, mirroring the
// Option<Instruction> returned by the reference interpreter this one is
// ported from.
func Decode(hi, lo byte) (Instruction, bool) {
	switch {
	case hi == 0x00 && lo == 0xE0:
		return Instruction{Op: OpClear}, true
	case hi == 0x00 && lo == 0xEE:
		return Instruction{Op: OpReturn}, true

	case hi&0xF0 == 0x10:
		return Instruction{Op: OpJump, NNN: AddrFromBytes(hi, lo)}, true
	case hi&0xF0 == 0x20:
		return Instruction{Op: OpCall, NNN: AddrFromBytes(hi, lo)}, true
	case hi&0xF0 == 0x30:
		return Instruction{Op: OpSkipEq, X: LoNibble(hi), KK: lo}, true
	case hi&0xF0 == 0x40:
		return Instruction{Op: OpSkipNeq, X: LoNibble(hi), KK: lo}, true
	case hi&0xF0 == 0x50 && lo&0x0F == 0x00:
		return Instruction{Op: OpSkipRegEq, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x60:
		return Instruction{Op: OpSetRegByte, X: LoNibble(hi), KK: lo}, true
	case hi&0xF0 == 0x70:
		return Instruction{Op: OpAdd, X: LoNibble(hi), KK: lo}, true

	case hi&0xF0 == 0x80 && lo&0x0F == 0x00:
		return Instruction{Op: OpCopy, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x80 && lo&0x0F == 0x01:
		return Instruction{Op: OpOr, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x80 && lo&0x0F == 0x02:
		return Instruction{Op: OpAnd, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x80 && lo&0x0F == 0x03:
		return Instruction{Op: OpXor, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x80 && lo&0x0F == 0x04:
		return Instruction{Op: OpAddCarry, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x80 && lo&0x0F == 0x05:
		return Instruction{Op: OpSubBorrow, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x80 && lo&0x0F == 0x06:
		return Instruction{Op: OpShr, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x80 && lo&0x0F == 0x07:
		return Instruction{Op: OpSubNBorrow, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0x80 && lo&0x0F == 0x0E:
		return Instruction{Op: OpShl, X: LoNibble(hi), Y: HiNibble(lo)}, true

	case hi&0xF0 == 0x90 && lo&0x0F == 0x00:
		return Instruction{Op: OpSkipRegNeq, X: LoNibble(hi), Y: HiNibble(lo)}, true
	case hi&0xF0 == 0xA0:
		return Instruction{Op: OpSetI, NNN: AddrFromBytes(hi, lo)}, true
	case hi&0xF0 == 0xB0:
		return Instruction{Op: OpJumpOffset, NNN: AddrFromBytes(hi, lo)}, true
	case hi&0xF0 == 0xC0:
		return Instruction{Op: OpRand, X: LoNibble(hi), KK: lo}, true
	case hi&0xF0 == 0xD0:
		return Instruction{Op: OpDraw, X: LoNibble(hi), Y: HiNibble(lo), N: LoNibble(lo)}, true

	case hi&0xF0 == 0xE0 && lo == 0x9E:
		return Instruction{Op: OpSkipKey, X: LoNibble(hi)}, true
	case hi&0xF0 == 0xE0 && lo == 0xA1:
		return Instruction{Op: OpSkipNotKey, X: LoNibble(hi)}, true

	case hi&0xF0 == 0xF0:
		return decodeF(hi, lo)
	}

	return Instruction{}, false
}

// decodeF handles the Fxkk family, including the three non-standard
// extensions (Exit, Debug, Break) this interpreter adds on top of the
// standard CHIP-8 instruction set.
func decodeF(hi, lo byte) (Instruction, bool) {
	x := LoNibble(hi)

	switch {
	case hi == 0xF1 && lo == 0xEE:
		return Instruction{Op: OpExit}, true
	case lo == 0xEF:
		return Instruction{Op: OpDebug, X: x}, true
	case hi == 0xF0 && lo == 0xFF:
		return Instruction{Op: OpBreak}, true
	case lo == 0x07:
		return Instruction{Op: OpGetDelay, X: x}, true
	case lo == 0x0A:
		return Instruction{Op: OpWaitKey, X: x}, true
	case lo == 0x15:
		return Instruction{Op: OpSetDelay, X: x}, true
	case lo == 0x18:
		return Instruction{Op: OpSetSound, X: x}, true
	case lo == 0x1E:
		return Instruction{Op: OpAddI, X: x}, true
	case lo == 0x29:
		return Instruction{Op: OpFontAddr, X: x}, true
	case lo == 0x33:
		return Instruction{Op: OpBcd, X: x}, true
	case lo == 0x55:
		return Instruction{Op: OpMemWrite, X: x}, true
	case lo == 0x65:
		return Instruction{Op: OpMemRead, X: x}, true
	}

	return Instruction{}, false
}

// Encode packs an Instruction back into its 16-bit opcode word. Encode is
// the exact inverse of Decode: Decode(Encode(i)) reproduces i for every
// value Decode can produce.
func Encode(i Instruction) uint16 {
	x := uint16(i.X)
	y := uint16(i.Y)
	n := uint16(i.N)
	kk := uint16(i.KK)
	nnn := uint16(i.NNN)

	switch i.Op {
	case OpClear:
		return 0x00E0
	case OpReturn:
		return 0x00EE
	case OpJump:
		return 0x1000 | nnn
	case OpCall:
		return 0x2000 | nnn
	case OpSkipEq:
		return 0x3000 | x<<8 | kk
	case OpSkipNeq:
		return 0x4000 | x<<8 | kk
	case OpSkipRegEq:
		return 0x5000 | x<<8 | y<<4
	case OpSetRegByte:
		return 0x6000 | x<<8 | kk
	case OpAdd:
		return 0x7000 | x<<8 | kk
	case OpCopy:
		return 0x8000 | x<<8 | y<<4
	case OpOr:
		return 0x8001 | x<<8 | y<<4
	case OpAnd:
		return 0x8002 | x<<8 | y<<4
	case OpXor:
		return 0x8003 | x<<8 | y<<4
	case OpAddCarry:
		return 0x8004 | x<<8 | y<<4
	case OpSubBorrow:
		return 0x8005 | x<<8 | y<<4
	case OpShr:
		return 0x8006 | x<<8 | y<<4
	case OpSubNBorrow:
		return 0x8007 | x<<8 | y<<4
	case OpShl:
		return 0x800E | x<<8 | y<<4
	case OpSkipRegNeq:
		return 0x9000 | x<<8 | y<<4
	case OpSetI:
		return 0xA000 | nnn
	case OpJumpOffset:
		return 0xB000 | nnn
	case OpRand:
		return 0xC000 | x<<8 | kk
	case OpDraw:
		return 0xD000 | x<<8 | y<<4 | n
	case OpSkipKey:
		return 0xE09E | x<<8
	case OpSkipNotKey:
		return 0xE0A1 | x<<8
	case OpGetDelay:
		return 0xF007 | x<<8
	case OpWaitKey:
		return 0xF00A | x<<8
	case OpSetDelay:
		return 0xF015 | x<<8
	case OpSetSound:
		return 0xF018 | x<<8
	case OpAddI:
		return 0xF01E | x<<8
	case OpFontAddr:
		return 0xF029 | x<<8
	case OpBcd:
		return 0xF033 | x<<8
	case OpMemWrite:
		return 0xF055 | x<<8
	case OpMemRead:
		return 0xF065 | x<<8
	case OpExit:
		return 0xF1EE
	case OpDebug:
		return 0xF0EF | x<<8
	case OpBreak:
		return 0xF0FF
	}

	panic(fmt.Sprintf("chip8: encode of invalid instruction %#v", i))
}

// Disassemble renders i in the mnemonic assembly syntax accepted by
// chip8/asm: one opcode per line, operands separated by whitespace,
// registers, immediates and addresses written as bare decimal numbers (the
// "v" prefix used by some CHIP-8 assemblers is not part of this dialect).
func Disassemble(i Instruction) string {
	switch i.Op {
	case OpClear:
		return "clear"
	case OpReturn:
		return "ret"
	case OpJump:
		return fmt.Sprintf("jmp %d", i.NNN)
	case OpCall:
		return fmt.Sprintf("call %d", i.NNN)
	case OpSkipEq:
		return fmt.Sprintf("se %d %d", i.X, i.KK)
	case OpSkipNeq:
		return fmt.Sprintf("sne %d %d", i.X, i.KK)
	case OpSkipRegEq:
		return fmt.Sprintf("sre %d %d", i.X, i.Y)
	case OpSetRegByte:
		return fmt.Sprintf("ldb %d %d", i.X, i.KK)
	case OpAdd:
		return fmt.Sprintf("add %d %d", i.X, i.KK)
	case OpCopy:
		return fmt.Sprintf("ldr %d %d", i.X, i.Y)
	case OpOr:
		return fmt.Sprintf("or %d %d", i.X, i.Y)
	case OpAnd:
		return fmt.Sprintf("and %d %d", i.X, i.Y)
	case OpXor:
		return fmt.Sprintf("xor %d %d", i.X, i.Y)
	case OpAddCarry:
		return fmt.Sprintf("addc %d %d", i.X, i.Y)
	case OpSubBorrow:
		return fmt.Sprintf("subc %d %d", i.X, i.Y)
	case OpShr:
		return fmt.Sprintf("shr %d %d", i.X, i.Y)
	case OpSubNBorrow:
		return fmt.Sprintf("subnc %d %d", i.X, i.Y)
	case OpShl:
		return fmt.Sprintf("shl %d %d", i.X, i.Y)
	case OpSkipRegNeq:
		return fmt.Sprintf("srne %d %d", i.X, i.Y)
	case OpSetI:
		return fmt.Sprintf("ldi %d", i.NNN)
	case OpJumpOffset:
		return fmt.Sprintf("jmpr %d", i.NNN)
	case OpRand:
		return fmt.Sprintf("rand %d %d", i.X, i.KK)
	case OpDraw:
		return fmt.Sprintf("draw %d %d %d", i.X, i.Y, i.N)
	case OpSkipKey:
		return fmt.Sprintf("skp %d", i.X)
	case OpSkipNotKey:
		return fmt.Sprintf("sknp %d", i.X)
	case OpGetDelay:
		return fmt.Sprintf("ldd %d", i.X)
	case OpWaitKey:
		return fmt.Sprintf("input %d", i.X)
	case OpSetDelay:
		return fmt.Sprintf("delay %d", i.X)
	case OpSetSound:
		return fmt.Sprintf("sound %d", i.X)
	case OpAddI:
		return fmt.Sprintf("addi %d", i.X)
	case OpFontAddr:
		return fmt.Sprintf("ldf %d", i.X)
	case OpBcd:
		return fmt.Sprintf("sbcd %d", i.X)
	case OpMemWrite:
		return fmt.Sprintf("write %d", i.X)
	case OpMemRead:
		return fmt.Sprintf("read %d", i.X)
	case OpExit:
		return "exit"
	case OpDebug:
		return fmt.Sprintf("debug %d", i.X)
	case OpBreak:
		return "break"
	}

	return fmt.Sprintf("<invalid %#v>", i)
}
