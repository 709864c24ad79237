package bex

import "unicode"

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"not":        NOT,
	"and":        AND,
	"nand":       NAND,
	"or":         OR,
	"nor":        NOR,
	"xor":        XOR,
	"xnor":       XNOR,
	"print":      PRINT,
	"return":     RETURN,
	"bit":        BIT,
	"bit_vector": BIT_VECTOR,
	"circuit":    CIRCUIT,
	"true":       TRUE,
	"True":       TRUE,
	"false":      FALSE,
	"False":      FALSE,
}

// Scanner holds all mutable state for a single scanning pass over src.
type Scanner struct {
	src    []rune
	start  int // index of the first rune of the token being scanned
	pos    int // index of the next rune to consume
	line   int // current 1-based source line
	tokens []Token
	diags  Diagnostics
}

func newScanner(src string) *Scanner {
	return &Scanner{src: []rune(src), line: 1}
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.src) }

// peek returns the rune at the current position without advancing.
func (s *Scanner) peek() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// advance consumes one rune and returns it. Newlines are counted by the caller
// so that a token's line is the line it starts on.
func (s *Scanner) advance() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	r := s.src[s.pos]
	s.pos++
	return r
}

func (s *Scanner) emit(tt TokenType, lit *Value) {
	s.tokens = append(s.tokens, Token{
		Type:    tt,
		Lexeme:  string(s.src[s.start:s.pos]),
		Literal: lit,
		Line:    s.line,
		Pos:     s.start,
	})
}

func (s *Scanner) errorf(lexeme, msg string) {
	s.diags = append(s.diags, Diagnostic{Kind: ScanError, Line: s.line, Lexeme: lexeme, Message: msg})
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentPart(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }

// scanIdent collects an identifier or keyword. The first rune has been consumed.
func (s *Scanner) scanIdent() {
	for !s.atEnd() && isIdentPart(s.peek()) {
		s.advance()
	}
	text := string(s.src[s.start:s.pos])
	tt, ok := keywords[text]
	if !ok {
		s.emit(IDENTIFIER, nil)
		return
	}
	switch tt {
	case TRUE:
		v := Bit(true)
		s.emit(tt, &v)
	case FALSE:
		v := Bit(false)
		s.emit(tt, &v)
	default:
		s.emit(tt, nil)
	}
}

// scanBinary collects the digits of a 0b literal. The "0b" marker has been consumed.
func (s *Scanner) scanBinary() {
	digits := s.pos
	for !s.atEnd() && (s.peek() == '0' || s.peek() == '1') {
		s.advance()
	}
	v, err := ParseBits(string(s.src[digits:s.pos]))
	if err != nil {
		s.errorf(string(s.src[s.start:s.pos]), "Expected binary digits after '0b'.")
		return
	}
	if v.IsVector() {
		s.emit(BITS, &v)
		return
	}
	s.emit(BOOL, &v)
}

// scanToken consumes one lexeme starting at s.start.
func (s *Scanner) scanToken() {
	ch := s.advance()
	switch ch {
	case '(':
		s.emit(LPAREN, nil)
	case ')':
		s.emit(RPAREN, nil)
	case ' ', '\t', '\r':
	case '\n':
		s.line++
	case '0':
		if s.peek() == 'b' {
			s.advance()
			s.scanBinary()
			return
		}
		v := Bit(false)
		s.emit(BOOL, &v)
	case '1':
		v := Bit(true)
		s.emit(BOOL, &v)
	default:
		if isIdentStart(ch) {
			s.scanIdent()
			return
		}
		s.errorf(string(ch), "Unexpected character.")
	}
}

// Scan tokenises src and returns all tokens including the final EOF token.
// It never fails: unexpected characters are reported and skipped.
func Scan(src string) ([]Token, Diagnostics) {
	s := newScanner(src)
	for !s.atEnd() {
		s.start = s.pos
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: EOF, Lexeme: "", Line: s.line, Pos: s.pos})
	return s.tokens, s.diags
}
