package asm

import (
	"io"
	"strconv"
)

// bufferSize is the number of bytes the lexer reads from its source in one
// refill; the lexer never holds the whole source in memory at once.
const bufferSize = 256

// TokenKind identifies the lexical category of a Token.
type TokenKind int

const (
	TokComma TokenKind = iota
	TokColon
	TokSemicolon
	TokSymbol
	TokInteger
	TokAlphanumeric
	TokWhitespace
	TokUnknown
	TokEOL
	TokEOF
)

// Token is a single lexical unit produced by the Lexer. Which of Symbol,
// Integer, and Text is meaningful depends on Kind.
type Token struct {
	Kind    TokenKind
	Symbol  byte
	Integer int
	Text    string
}

func (k TokenKind) String() string {
	switch k {
	case TokComma:
		return "comma"
	case TokColon:
		return "colon"
	case TokSemicolon:
		return "semicolon"
	case TokSymbol:
		return "symbol"
	case TokInteger:
		return "integer"
	case TokAlphanumeric:
		return "alphanumeric"
	case TokWhitespace:
		return "whitespace"
	case TokUnknown:
		return "unknown"
	case TokEOL:
		return "eol"
	case TokEOF:
		return "eof"
	}
	return "invalid"
}

// Lexer is the token source a Parser consumes. It is abstracted behind an
// interface, rather than exposed only as the concrete streamLexer, so a
// test can drive the Parser from a canned token slice (sliceLexer) without
// assembling a byte stream for every case.
type Lexer interface {
	// Next returns the next Token in the stream. Once the stream is
	// exhausted it returns Token{Kind: TokEOF} forever; callers should
	// stop calling Next after observing it.
	Next() (Token, error)
	// Location reports the 0-indexed line and column of the next token
	// to be produced, for use in ParsingError.
	Location() (line, column int)
}

// streamLexer tokenizes CHIP-8 assembly source read incrementally from an
// io.Reader. It tracks the 0-indexed line and column of the next token for
// use in ParsingError, and only ever buffers bufferSize bytes at a time.
type streamLexer struct {
	reader     io.Reader
	buffer     [bufferSize]byte
	cursor     int
	bufferSize int
	line       int
	column     int
}

// NewLexer constructs a Lexer reading from r.
func NewLexer(r io.Reader) Lexer {
	return &streamLexer{
		reader:     r,
		cursor:     bufferSize,
		bufferSize: bufferSize,
	}
}

// Location returns the 0-indexed line and column of the next token to be
// produced.
func (l *streamLexer) Location() (line, column int) { return l.line, l.column }

func (l *streamLexer) isBufferEnd() bool {
	return l.cursor >= l.bufferSize
}

func (l *streamLexer) isStreamEnd() bool {
	return l.isBufferEnd() && l.bufferSize < bufferSize
}

func (l *streamLexer) load() error {
	n, err := l.reader.Read(l.buffer[:])
	if err != nil && err != io.EOF {
		return &LexerError{Err: err}
	}
	l.bufferSize = n
	l.cursor = 0
	return nil
}

func (l *streamLexer) peek() (byte, error) {
	if l.isBufferEnd() && !l.isStreamEnd() {
		if err := l.load(); err != nil {
			return 0, err
		}
	}
	return l.buffer[l.cursor], nil
}

func (l *streamLexer) pop() (byte, error) {
	b, err := l.peek()
	if err != nil {
		return 0, err
	}
	l.cursor++
	l.column++
	return b, nil
}

func (l *streamLexer) collect(first byte, pred func(byte) bool) ([]byte, error) {
	chars := []byte{first}
	for {
		if l.isStreamEnd() {
			break
		}
		c, err := l.peek()
		if err != nil {
			return nil, err
		}
		if l.isStreamEnd() || !pred(c) {
			break
		}
		b, err := l.pop()
		if err != nil {
			return nil, err
		}
		chars = append(chars, b)
	}
	return chars, nil
}

// Next returns the next Token in the stream. Once the stream is exhausted
// it returns Token{Kind: TokEOF} forever; callers should stop calling Next
// after observing it.
func (l *streamLexer) Next() (Token, error) {
	if l.isBufferEnd() && !l.isStreamEnd() {
		if err := l.load(); err != nil {
			return Token{}, err
		}
	}
	if l.isStreamEnd() {
		return Token{Kind: TokEOF}, nil
	}

	b, err := l.pop()
	if err != nil {
		return Token{}, err
	}

	switch {
	case b == ',':
		return Token{Kind: TokComma}, nil
	case b == ':':
		return Token{Kind: TokColon}, nil
	case b == ';':
		return Token{Kind: TokSemicolon}, nil

	case isWhitespace(b):
		if _, err := l.collect(b, isWhitespace); err != nil {
			return Token{}, err
		}
		return Token{Kind: TokWhitespace}, nil

	case b == '\n':
		l.line++
		l.column = 0
		return Token{Kind: TokEOL}, nil

	case b == '\r':
		nxt, err := l.peek()
		if err == nil && !l.isStreamEnd() && nxt == '\n' {
			if _, err := l.pop(); err != nil {
				return Token{}, err
			}
			l.line++
			l.column = 0
			return Token{Kind: TokEOL}, nil
		}
		return Token{Kind: TokSymbol, Symbol: b}, nil

	case isASCIIPunct(b):
		return Token{Kind: TokSymbol, Symbol: b}, nil

	case isASCIIDigit(b):
		chars, err := l.collect(b, isASCIIDigit)
		if err != nil {
			return Token{}, err
		}
		n, perr := strconv.Atoi(string(chars))
		if perr != nil {
			return Token{}, &LexerError{Err: perr}
		}
		return Token{Kind: TokInteger, Integer: n}, nil

	case isASCIIAlnum(b):
		chars, err := l.collect(b, isASCIIAlnum)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokAlphanumeric, Text: string(chars)}, nil
	}

	return Token{Kind: TokUnknown, Symbol: b}, nil
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCIIAlnum(b byte) bool {
	return b >= '0' && b <= '9' ||
		b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z'
}

// isASCIIPunct mirrors Rust's u8::is_ascii_punctuation: the visible,
// non-alphanumeric ASCII characters.
func isASCIIPunct(b byte) bool {
	return (b >= '!' && b <= '/') ||
		(b >= ':' && b <= '@') ||
		(b >= '[' && b <= '`') ||
		(b >= '{' && b <= '~')
}
