package asm

import (
	"fmt"
	"io"

	"github.com/danhuel/chip8"
)

// Grammar (whitespace and comments are elided throughout):
//
//	<comment>            ::= ";" <anything>
//	<label>               ::= <alphanumeric> ":"
//	<instruction>         ::= <mnemonic> <arg>? <arg>? <arg>?
//	<line>                ::= <comment> | <label> <comment>? | <instruction> <comment>?
//	<assembly>            ::= <line>*
//
// A line carries a label or an instruction, not both; a trailing comment is
// permitted after either.

// argToken is a raw, not-yet-typed instruction operand: either the integer
// or the identifier the lexer produced for it. Which it must be depends on
// the mnemonic's argument kind.
type argToken struct {
	isInt bool
	ival  int
	text  string
}

// rawLine is one logical line of source, after the first parsing pass but
// before mnemonics are resolved against the instruction table.
type rawLine struct {
	label    string
	hasLabel bool

	mnemonic     string
	hasInstr     bool
	args         []argToken
	line, column int
}

// ParsedInstruction is a fully typed instruction awaiting label
// resolution. Every field chip8.Instruction could need is already
// resolved except the address operand of jmp/call/ldi/jmpr, which may
// still be a forward or backward label reference.
type ParsedInstruction struct {
	Op  chip8.Op
	X   chip8.Nibble
	Y   chip8.Nibble
	N   chip8.Nibble
	KK  byte
	NNN chip8.Addr12

	AddrLabel string // non-empty if the address operand is a label reference
	Line      int
}

// Assembly is the output of a successful Parse: an ordered instruction
// stream plus the table of label names to the instruction index they
// name. Instruction addresses are assigned sequentially starting at
// chip8.StartAddr, two bytes apart, so a label's address is
// chip8.StartAddr + 2*index.
type Assembly struct {
	Instructions []ParsedInstruction
	Labels       map[string]int
}

// Parser consumes a token stream from a Lexer and produces an Assembly.
// Each line is handled in two stages before the next line is read: first
// it is split into a label or a mnemonic-plus-arguments instruction, plus
// an optional trailing comment; then an instruction line is lowered
// against the mnemonic table into a ParsedInstruction.
type Parser struct {
	lexer   Lexer
	peeked  bool
	peekTok Token
}

// NewParser constructs a Parser reading source from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// NewParserFromLexer constructs a Parser consuming tokens from lexer
// directly, bypassing the byte stream. Tests use this with a sliceLexer to
// drive the Parser from a canned token sequence.
func NewParserFromLexer(lexer Lexer) *Parser {
	return &Parser{lexer: lexer}
}

func (p *Parser) pop() (Token, error) {
	if p.peeked {
		p.peeked = false
		return p.peekTok, nil
	}
	return p.lexer.Next()
}

func (p *Parser) peek() (Token, error) {
	if p.peeked {
		return p.peekTok, nil
	}
	tok, err := p.lexer.Next()
	if err != nil {
		return Token{}, err
	}
	p.peekTok = tok
	p.peeked = true
	return tok, nil
}

func (p *Parser) trimWhitespace() error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind != TokWhitespace {
			return nil
		}
		if _, err := p.pop(); err != nil {
			return err
		}
	}
}

// skipComment consumes tokens through end of line; the lexer has already
// produced the leading Semicolon.
func (p *Parser) skipComment() error {
	for {
		tok, err := p.pop()
		if err != nil {
			return err
		}
		if tok.Kind == TokEOL || tok.Kind == TokEOF {
			return nil
		}
	}
}

func (p *Parser) parseLabel(name string) (rawLine, error) {
	if _, err := p.pop(); err != nil { // consume Colon
		return rawLine{}, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return rawLine{}, err
		}
		switch tok.Kind {
		case TokEOL, TokEOF:
			if tok.Kind == TokEOL {
				p.pop()
			}
			return rawLine{label: name, hasLabel: true}, nil
		case TokWhitespace:
			p.pop()
		case TokSemicolon:
			p.pop()
			if err := p.skipComment(); err != nil {
				return rawLine{}, err
			}
			return rawLine{label: name, hasLabel: true}, nil
		default:
			line, column := p.lexer.Location()
			return rawLine{}, &ParsingError{Line: line, Column: column, Msg: "unexpected token after label"}
		}
	}
}

func (p *Parser) parseArg() (argToken, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return argToken{}, false, err
	}
	switch tok.Kind {
	case TokAlphanumeric:
		p.pop()
		return argToken{text: tok.Text}, true, nil
	case TokInteger:
		p.pop()
		return argToken{isInt: true, ival: tok.Integer}, true, nil
	}
	return argToken{}, false, nil
}

func (p *Parser) parseInstruction(mnemonic string) (rawLine, error) {
	line, column := p.lexer.Location()
	raw := rawLine{mnemonic: mnemonic, hasInstr: true, line: line, column: column}

	for {
		if err := p.trimWhitespace(); err != nil {
			return rawLine{}, err
		}
		tok, err := p.peek()
		if err != nil {
			return rawLine{}, err
		}
		switch tok.Kind {
		case TokEOL, TokEOF:
			if tok.Kind == TokEOL {
				p.pop()
			}
			return raw, nil
		case TokSemicolon:
			p.pop()
			if err := p.skipComment(); err != nil {
				return rawLine{}, err
			}
			return raw, nil
		case TokComma:
			p.pop()
			continue
		}

		arg, ok, err := p.parseArg()
		if err != nil {
			return rawLine{}, err
		}
		if !ok {
			line, column := p.lexer.Location()
			return rawLine{}, &ParsingError{Line: line, Column: column, Msg: fmt.Sprintf("unexpected token %s in operand position", tok.Kind)}
		}
		if len(raw.args) == 3 {
			return rawLine{}, &ParsingError{Line: raw.line, Column: raw.column, Msg: "too many operands"}
		}
		raw.args = append(raw.args, arg)
	}
}

// parseLine consumes one logical line of source and reports (line, false)
// at end of input.
func (p *Parser) parseLine() (rawLine, bool, error) {
	if err := p.trimWhitespace(); err != nil {
		return rawLine{}, false, err
	}
	tok, err := p.pop()
	if err != nil {
		return rawLine{}, false, err
	}

	switch tok.Kind {
	case TokEOF:
		return rawLine{}, false, nil
	case TokEOL:
		return rawLine{}, true, nil
	case TokSemicolon:
		if err := p.skipComment(); err != nil {
			return rawLine{}, false, err
		}
		return rawLine{}, true, nil
	case TokAlphanumeric:
		next, err := p.peek()
		if err != nil {
			return rawLine{}, false, err
		}
		if next.Kind == TokColon {
			line, err := p.parseLabel(tok.Text)
			return line, err == nil, err
		}
		line, err := p.parseInstruction(tok.Text)
		return line, err == nil, err
	}

	line, column := p.lexer.Location()
	return rawLine{}, false, &ParsingError{Line: line, Column: column, Msg: fmt.Sprintf("unexpected token %s", tok.Kind)}
}

// Parse reads the entire source and produces an Assembly, or the first
// ParsingError encountered.
func (p *Parser) Parse() (*Assembly, error) {
	asm := &Assembly{Labels: map[string]int{}}

	for {
		line, more, err := p.parseLine()
		if err != nil {
			return nil, err
		}

		if line.hasLabel {
			asm.Labels[line.label] = len(asm.Instructions)
		}
		if line.hasInstr {
			instr, err := lower(line)
			if err != nil {
				return nil, err
			}
			asm.Instructions = append(asm.Instructions, instr)
		}

		if !more {
			break
		}
	}

	return asm, nil
}
