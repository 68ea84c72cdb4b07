package asm

import (
	"fmt"

	"github.com/danhuel/chip8"
)

// Link resolves every label reference in an Assembly to a concrete
// address and returns the corresponding chip8.Instruction stream, one per
// ParsedInstruction, in order. An instruction's address is
// chip8.StartAddr + 2*index, since every instruction this assembler
// produces is exactly one 16-bit word.
func Link(a *Assembly) ([]chip8.Instruction, error) {
	out := make([]chip8.Instruction, len(a.Instructions))
	for i, p := range a.Instructions {
		nnn := p.NNN
		if p.AddrLabel != "" {
			idx, ok := a.Labels[p.AddrLabel]
			if !ok {
				return nil, &BinaryError{Line: p.Line, Msg: fmt.Sprintf("undefined label %q", p.AddrLabel)}
			}
			nnn = chip8.Addr12(chip8.StartAddr + 2*idx)
		}
		out[i] = chip8.Instruction{
			Op:  p.Op,
			X:   p.X,
			Y:   p.Y,
			N:   p.N,
			KK:  p.KK,
			NNN: nnn,
		}
	}
	return out, nil
}

// Binary encodes a resolved instruction stream as the big-endian byte
// sequence a chip8.VM loads starting at chip8.StartAddr.
func Binary(instructions []chip8.Instruction) []byte {
	out := make([]byte, 0, len(instructions)*2)
	for _, instr := range instructions {
		word := chip8.Encode(instr)
		out = append(out, byte(word>>8), byte(word))
	}
	return out
}

// Assemble is the convenience entry point: link and encode a parsed
// Assembly in one call.
func Assemble(a *Assembly) ([]byte, error) {
	instructions, err := Link(a)
	if err != nil {
		return nil, err
	}
	return Binary(instructions), nil
}
