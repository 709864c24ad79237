package bex

import "fmt"

// TokenType identifies the category of a scanned token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Paired delimiters
	LPAREN // (
	RPAREN // )

	// Literals
	IDENTIFIER // variable / circuit name
	BOOL       // width-1 literal: 0, 1, 0b1
	BITS       // width>1 literal: 0b0110

	// Gate keywords
	NOT  // "not"
	AND  // "and"
	NAND // "nand"
	OR   // "or"
	NOR  // "nor"
	XOR  // "xor"
	XNOR // "xnor"

	// Statement keywords
	PRINT      // "print"
	RETURN     // "return"
	BIT        // "bit"
	BIT_VECTOR // "bit_vector"
	CIRCUIT    // "circuit"

	// Keyword literals
	TRUE  // "true" / "True"
	FALSE // "false" / "False"
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:        "EOF",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	IDENTIFIER: "IDENTIFIER",
	BOOL:       "BOOL",
	BITS:       "BITS",
	NOT:        "NOT",
	AND:        "AND",
	NAND:       "NAND",
	OR:         "OR",
	NOR:        "NOR",
	XOR:        "XOR",
	XNOR:       "XNOR",
	PRINT:      "PRINT",
	RETURN:     "RETURN",
	BIT:        "BIT",
	BIT_VECTOR: "BIT_VECTOR",
	CIRCUIT:    "CIRCUIT",
	TRUE:       "TRUE",
	FALSE:      "FALSE",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsLiteral reports whether tokens of this type carry a literal value.
func (tt TokenType) IsLiteral() bool {
	return tt == BOOL || tt == BITS || tt == TRUE || tt == FALSE
}

// Token is a single lexical unit produced by the Scanner.
type Token struct {
	Type    TokenType
	Lexeme  string // the exact source text that was matched
	Literal *Value // set for BOOL, BITS, TRUE and FALSE
	Line    int    // 1-based source line
	Pos     int    // rune offset of the first character
}

// End returns the rune offset just past the token's text.
func (t Token) End() int {
	return t.Pos + len([]rune(t.Lexeme))
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%-10s %-14q  line %d  = %s", t.Type, t.Lexeme, t.Line, t.Literal)
	}
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
