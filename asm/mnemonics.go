package asm

import (
	"fmt"

	"github.com/danhuel/chip8"
)

// argKind describes what an operand position of a mnemonic accepts.
type argKind int

const (
	argReg     argKind = iota // register index, 0-15
	argByte                   // immediate byte, 0-255
	argNibbleN                // small immediate occupying the N field, 0-15 (draw's height)
	argNibbleX                // small immediate occupying the X field, 0-15 (debug's value)
	argAddr                   // 12-bit address, given as a literal or a label
)

// mnemonicSpec maps a mnemonic to the Op it assembles to and the kinds of
// operands it expects, in order.
type mnemonicSpec struct {
	op   chip8.Op
	args []argKind
}

// mnemonics is the complete assembler dialect: one entry per instruction
// this interpreter understands, including the three non-standard
// extensions (exit, debug, break).
var mnemonics = map[string]mnemonicSpec{
	"clear": {chip8.OpClear, nil},
	"ret":   {chip8.OpReturn, nil},
	"jmp":   {chip8.OpJump, []argKind{argAddr}},
	"call":  {chip8.OpCall, []argKind{argAddr}},
	"se":    {chip8.OpSkipEq, []argKind{argReg, argByte}},
	"sne":   {chip8.OpSkipNeq, []argKind{argReg, argByte}},
	"sre":   {chip8.OpSkipRegEq, []argKind{argReg, argReg}},
	"srne":  {chip8.OpSkipRegNeq, []argKind{argReg, argReg}},
	"ldb":   {chip8.OpSetRegByte, []argKind{argReg, argByte}},
	"add":   {chip8.OpAdd, []argKind{argReg, argByte}},
	"ldr":   {chip8.OpCopy, []argKind{argReg, argReg}},
	"or":    {chip8.OpOr, []argKind{argReg, argReg}},
	"and":   {chip8.OpAnd, []argKind{argReg, argReg}},
	"xor":   {chip8.OpXor, []argKind{argReg, argReg}},
	"addc":  {chip8.OpAddCarry, []argKind{argReg, argReg}},
	"subc":  {chip8.OpSubBorrow, []argKind{argReg, argReg}},
	"shr":   {chip8.OpShr, []argKind{argReg, argReg}},
	"subnc": {chip8.OpSubNBorrow, []argKind{argReg, argReg}},
	"shl":   {chip8.OpShl, []argKind{argReg, argReg}},
	"ldi":   {chip8.OpSetI, []argKind{argAddr}},
	"jmpr":  {chip8.OpJumpOffset, []argKind{argAddr}},
	"rand":  {chip8.OpRand, []argKind{argReg, argByte}},
	"draw":  {chip8.OpDraw, []argKind{argReg, argReg, argNibbleN}},
	"skp":   {chip8.OpSkipKey, []argKind{argReg}},
	"sknp":  {chip8.OpSkipNotKey, []argKind{argReg}},
	"input": {chip8.OpWaitKey, []argKind{argReg}},
	"ldf":   {chip8.OpFontAddr, []argKind{argReg}},
	"ldd":   {chip8.OpGetDelay, []argKind{argReg}},
	"delay": {chip8.OpSetDelay, []argKind{argReg}},
	"sound": {chip8.OpSetSound, []argKind{argReg}},
	"addi":  {chip8.OpAddI, []argKind{argReg}},
	"sbcd":  {chip8.OpBcd, []argKind{argReg}},
	"write": {chip8.OpMemWrite, []argKind{argReg}},
	"read":  {chip8.OpMemRead, []argKind{argReg}},
	"exit":  {chip8.OpExit, nil},
	"debug": {chip8.OpDebug, []argKind{argNibbleX}},
	"break": {chip8.OpBreak, nil},
}

// lower resolves a rawLine's mnemonic against the instruction table and
// type-checks its operands, producing a ParsedInstruction. Address
// operands that name a label are left unresolved for the Linker.
func lower(raw rawLine) (ParsedInstruction, error) {
	spec, ok := mnemonics[raw.mnemonic]
	if !ok {
		return ParsedInstruction{}, &ParsingError{Line: raw.line, Column: raw.column, Msg: fmt.Sprintf("unknown mnemonic %q", raw.mnemonic)}
	}
	if len(raw.args) != len(spec.args) {
		return ParsedInstruction{}, &ParsingError{Line: raw.line, Column: raw.column, Msg: fmt.Sprintf("%s expects %d operands, got %d", raw.mnemonic, len(spec.args), len(raw.args))}
	}

	instr := ParsedInstruction{Op: spec.op, Line: raw.line}
	regSlot := 0

	for i, kind := range spec.args {
		arg := raw.args[i]
		switch kind {
		case argAddr:
			if arg.isInt {
				if arg.ival < 0 || arg.ival > 0x0FFF {
					return ParsedInstruction{}, &ParsingError{Line: raw.line, Column: raw.column, Msg: fmt.Sprintf("address %d out of range", arg.ival)}
				}
				instr.NNN = chip8.Addr12(arg.ival)
			} else {
				instr.AddrLabel = arg.text
			}
		case argByte:
			if !arg.isInt || arg.ival < 0 || arg.ival > 0xFF {
				return ParsedInstruction{}, &ParsingError{Line: raw.line, Column: raw.column, Msg: fmt.Sprintf("%s: operand %d must be a byte literal", raw.mnemonic, i+1)}
			}
			instr.KK = byte(arg.ival)
		case argNibbleN:
			if !arg.isInt || arg.ival < 0 || arg.ival > 0xF {
				return ParsedInstruction{}, &ParsingError{Line: raw.line, Column: raw.column, Msg: fmt.Sprintf("%s: operand %d must be 0-15", raw.mnemonic, i+1)}
			}
			instr.N = chip8.Nibble(arg.ival)
		case argNibbleX:
			if !arg.isInt || arg.ival < 0 || arg.ival > 0xF {
				return ParsedInstruction{}, &ParsingError{Line: raw.line, Column: raw.column, Msg: fmt.Sprintf("%s: operand %d must be 0-15", raw.mnemonic, i+1)}
			}
			instr.X = chip8.Nibble(arg.ival)
		case argReg:
			if !arg.isInt || arg.ival < 0 || arg.ival > 0xF {
				return ParsedInstruction{}, &ParsingError{Line: raw.line, Column: raw.column, Msg: fmt.Sprintf("%s: operand %d must be a register 0-15", raw.mnemonic, i+1)}
			}
			switch regSlot {
			case 0:
				instr.X = chip8.Nibble(arg.ival)
			case 1:
				instr.Y = chip8.Nibble(arg.ival)
			}
			regSlot++
		}
	}

	return instr, nil
}
