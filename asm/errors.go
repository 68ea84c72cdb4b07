// Package asm implements the CHIP-8 assembler front end: a streaming
// lexer, a two-stage parser that lowers mnemonic lines into typed
// instructions, and a linker that resolves labels into addresses and
// emits the binary a chip8.VM can load.
package asm

import "fmt"

// LexerError wraps a failure encountered while reading or tokenizing
// source: an I/O error from the underlying reader, or a malformed integer
// literal.
type LexerError struct {
	Err error
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("asm: lexer: %v", e.Err)
}

func (e *LexerError) Unwrap() error {
	return e.Err
}

// ParsingError reports a syntax error encountered while parsing a line of
// source, with the line and column at which it occurred.
type ParsingError struct {
	Line, Column int
	Msg          string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("asm: parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// BinaryError reports a failure linking a parsed Assembly into a binary.
// Link returns it only for an undefined label reference; literal operand
// ranges are checked earlier by the parser, and a resolved label address is
// not range-checked.
type BinaryError struct {
	Line int
	Msg  string
}

func (e *BinaryError) Error() string {
	return fmt.Sprintf("asm: link error at line %d: %s", e.Line, e.Msg)
}
