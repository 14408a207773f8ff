package types

import (
	"fmt"
	"strconv"
	"strings"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota

	PROGRAM
	VAR
	BEGIN
	END
	INTEGER_TYPE
	REAL_TYPE

	ID
	INTEGER_CONST
	REAL_CONST

	COLON
	COMMA
	SEMI
	DOT
	ASSIGN
	PLUS
	MINUS
	MUL
	INTEGER_DIV
	FLOAT_DIV
	LPAREN
	RPAREN
)

var kindNames = map[TokenKind]string{
	EOF:           "EOF",
	PROGRAM:       "PROGRAM",
	VAR:           "VAR",
	BEGIN:         "BEGIN",
	END:           "END",
	INTEGER_TYPE:  "INTEGER",
	REAL_TYPE:     "REAL",
	ID:            "ID",
	INTEGER_CONST: "INTEGER_CONST",
	REAL_CONST:    "REAL_CONST",
	COLON:         "COLON",
	COMMA:         "COMMA",
	SEMI:          "SEMI",
	DOT:           "DOT",
	ASSIGN:        "ASSIGN",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	MUL:           "MUL",
	INTEGER_DIV:   "INTEGER_DIV",
	FLOAT_DIV:     "FLOAT_DIV",
	LPAREN:        "LPAREN",
	RPAREN:        "RPAREN",
}

func (t TokenKind) String() string {
	if name, ok := kindNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// Symbol is the source spelling of an operator kind.
func (t TokenKind) Symbol() string {
	switch t {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MUL:
		return "*"
	case INTEGER_DIV:
		return "DIV"
	case FLOAT_DIV:
		return "/"
	}
	return t.String()
}

// Keywords maps the upper-cased reserved words to their kinds.
var Keywords = map[string]TokenKind{
	"PROGRAM": PROGRAM,
	"VAR":     VAR,
	"BEGIN":   BEGIN,
	"END":     END,
	"DIV":     INTEGER_DIV,
	"INTEGER": INTEGER_TYPE,
	"REAL":    REAL_TYPE,
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

type Token struct {
	Kind     TokenKind
	Lit      string
	Value    Number
	Location Span
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Lit)
}

type NumKind int

const (
	Integer NumKind = iota
	Real
)

func (k NumKind) String() string {
	if k == Real {
		return "REAL"
	}
	return "INTEGER"
}

// Number is an INTEGER or REAL value. Only the field selected by Kind is
// meaningful.
type Number struct {
	Kind NumKind
	Int  int64
	Real float64
}

func Int(v int64) Number {
	return Number{Kind: Integer, Int: v}
}

func Float(v float64) Number {
	return Number{Kind: Real, Real: v}
}

func (n Number) IsReal() bool {
	return n.Kind == Real
}

// Float64 returns the value promoted to a real.
func (n Number) Float64() float64 {
	if n.Kind == Real {
		return n.Real
	}
	return float64(n.Int)
}

func (n Number) IsZero() bool {
	if n.Kind == Real {
		return n.Real == 0
	}
	return n.Int == 0
}

func (n Number) String() string {
	if n.Kind == Integer {
		return strconv.FormatInt(n.Int, 10)
	}
	s := strconv.FormatFloat(n.Real, 'f', -1, 64)
	if !strings.ContainsAny(s, ".nI") {
		s += ".0"
	}
	return s
}

// Value returns the number as an int64 or float64, for encoders.
func (n Number) Value() interface{} {
	if n.Kind == Real {
		return n.Real
	}
	return n.Int
}
