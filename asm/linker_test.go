package asm

import (
	"strings"
	"testing"

	"github.com/danhuel/chip8"
)

func TestLinkResolvesForwardAndBackwardLabels(t *testing.T) {
	a, err := NewParser(strings.NewReader(`
	main:
		jmp loop
	loop:
		add 1 1
		jmp loop
	`)).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	instructions, err := Link(a)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}

	// loop is instruction index 1, so its address is StartAddr + 2.
	want := chip8.Addr12(chip8.StartAddr + 2)
	if instructions[0].Op != chip8.OpJump || instructions[0].NNN != want {
		t.Errorf("jmp loop = %+v, want NNN=%s", instructions[0], want)
	}
	if instructions[2].Op != chip8.OpJump || instructions[2].NNN != want {
		t.Errorf("jmp loop (backward) = %+v, want NNN=%s", instructions[2], want)
	}
}

func TestLinkUndefinedLabelErrors(t *testing.T) {
	a, err := NewParser(strings.NewReader("jmp nowhere\n")).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Link(a); err == nil {
		t.Fatalf("Link of undefined label succeeded, want error")
	}
}

func TestBinaryRoundTripsThroughDecode(t *testing.T) {
	a, err := NewParser(strings.NewReader("ldb 1 5\nadd 1 2\nexit\n")).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	program, err := Assemble(a)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(program) != 6 {
		t.Fatalf("len(program) = %d, want 6", len(program))
	}

	for i := 0; i+1 < len(program); i += 2 {
		if _, ok := chip8.Decode(program[i], program[i+1]); !ok {
			t.Errorf("byte %d (%02x%02x) did not decode", i, program[i], program[i+1])
		}
	}
}
