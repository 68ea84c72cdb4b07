package asm

import (
	"fmt"
	"strings"

	"github.com/danhuel/chip8"
)

// Disassemble renders an entire binary loaded at chip8.StartAddr as
// assembly source, one instruction per line prefixed with its address.
// Bytes that do not decode to a recognized opcode are logged and skipped
// two bytes at a time, so a ROM containing embedded sprite data past its
// last reachable instruction does not abort the whole listing.
func Disassemble(program []byte, logger chip8.Logger) string {
	var b strings.Builder
	addr := chip8.Addr12(chip8.StartAddr)

	for i := 0; i+1 < len(program); i += 2 {
		hi, lo := program[i], program[i+1]
		instr, ok := chip8.Decode(hi, lo)
		if !ok {
			if logger != nil {
				logger.Printf("disasm: unknown opcode %02x%02x at %s, skipping", hi, lo, addr)
			}
			fmt.Fprintf(&b, "%s\t; unknown opcode %02x%02x\n", addr, hi, lo)
			addr += 2
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\n", addr, chip8.Disassemble(instr))
		addr += 2
	}

	return b.String()
}
