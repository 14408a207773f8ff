package lexer

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pontaoski/spigo/errors"
	"github.com/pontaoski/spigo/types"
)

var punctuation = map[rune]types.TokenKind{
	'+': types.PLUS,
	'-': types.MINUS,
	'*': types.MUL,
	'/': types.FLOAT_DIV,
	'(': types.LPAREN,
	')': types.RPAREN,
	';': types.SEMI,
	',': types.COMMA,
	'.': types.DOT,
}

type Lexer struct {
	pos    types.Position
	prev   types.Position
	reader *bufio.Reader
	peeked *types.Token
	eof    *types.Token
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

// All lexes reader up to, but not including, the EOF token.
func All(reader io.Reader, filename string) ([]types.Token, error) {
	l := NewLexer(reader, filename)

	var ret []types.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == types.EOF {
			return ret, nil
		}
		ret = append(ret, tok)
	}
}

func (l *Lexer) read() (rune, error) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}

	l.prev = l.pos
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 0
	} else {
		l.pos.Column++
	}

	return r, nil
}

// backup steps back over the rune returned by the last read.
func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos = l.prev
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (types.Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}

	tok, err := l.lex()
	if err != nil {
		return types.Token{}, err
	}
	l.peeked = &tok

	return tok, nil
}

// Next consumes and returns the next token. Once the input is exhausted
// every call returns an EOF token.
func (l *Lexer) Next() (types.Token, error) {
	if l.peeked != nil {
		defer func() { l.peeked = nil }()
		return *l.peeked, nil
	}

	return l.lex()
}

func (l *Lexer) lex() (types.Token, error) {
	if l.eof != nil {
		return *l.eof, nil
	}

	for {
		r, err := l.read()
		if err == io.EOF {
			l.eof = &types.Token{
				Kind:     types.EOF,
				Location: types.SingleCharSpan(l.pos),
			}
			return *l.eof, nil
		} else if err != nil {
			return types.Token{}, err
		}

		switch {
		case unicode.IsSpace(r):
			continue
		case r == '{':
			if err := l.skipComment(); err != nil {
				return types.Token{}, err
			}
			continue
		case isDigit(r):
			return l.lexNumber(r)
		case unicode.IsLetter(r):
			return l.lexIdent(r)
		case r == ':':
			return l.lexColon()
		}

		if kind, ok := punctuation[r]; ok {
			return types.Token{
				Kind:     kind,
				Lit:      string(r),
				Location: types.SingleCharSpan(l.pos),
			}, nil
		}

		return types.Token{}, errors.LexicalError{
			Char:     r,
			Location: l.pos,
		}
	}
}

// skipComment should be called when the lexer is past the opening brace
func (l *Lexer) skipComment() error {
	open := l.pos

	for {
		r, err := l.read()
		if err == io.EOF {
			return errors.LexicalError{
				Char:     '{',
				Message:  "unterminated comment",
				Location: open,
			}
		} else if err != nil {
			return err
		}

		if r == '}' {
			return nil
		}
	}
}

func (l *Lexer) lexColon() (types.Token, error) {
	from := l.pos

	r, err := l.read()
	if err != nil && err != io.EOF {
		return types.Token{}, err
	}
	if err == nil && r == '=' {
		return types.Token{
			Kind:     types.ASSIGN,
			Lit:      ":=",
			Location: types.Span{From: from, To: l.pos},
		}, nil
	}
	if err == nil {
		l.backup()
	}

	return types.Token{
		Kind:     types.COLON,
		Lit:      ":",
		Location: types.SingleCharSpan(from),
	}, nil
}

// digits appends runes to b while they are decimal digits.
func (l *Lexer) digits(b *strings.Builder) error {
	for {
		r, err := l.read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if !isDigit(r) {
			l.backup()
			return nil
		}
		b.WriteRune(r)
	}
}

func (l *Lexer) lexNumber(first rune) (types.Token, error) {
	from := l.pos

	var b strings.Builder
	b.WriteRune(first)
	if err := l.digits(&b); err != nil {
		return types.Token{}, err
	}

	isReal := false
	r, err := l.read()
	if err != nil && err != io.EOF {
		return types.Token{}, err
	}
	if err == nil {
		if r == '.' {
			isReal = true
			b.WriteRune(r)
			if err := l.digits(&b); err != nil {
				return types.Token{}, err
			}
		} else {
			l.backup()
		}
	}

	lit := b.String()
	span := types.Span{From: from, To: l.pos}

	if isReal {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return types.Token{}, errors.LexicalError{
				Char:     first,
				Message:  "real constant " + lit + " is out of range",
				Location: from,
			}
		}
		return types.Token{Kind: types.REAL_CONST, Lit: lit, Value: types.Float(v), Location: span}, nil
	}

	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return types.Token{}, errors.LexicalError{
			Char:     first,
			Message:  "integer constant " + lit + " is out of range",
			Location: from,
		}
	}
	return types.Token{Kind: types.INTEGER_CONST, Lit: lit, Value: types.Int(v), Location: span}, nil
}

func (l *Lexer) lexIdent(first rune) (types.Token, error) {
	from := l.pos

	var b strings.Builder
	b.WriteRune(first)
	for {
		r, err := l.read()
		if err == io.EOF {
			break
		} else if err != nil {
			return types.Token{}, err
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			l.backup()
			break
		}
		b.WriteRune(r)
	}

	lit := b.String()
	span := types.Span{From: from, To: l.pos}

	if kind, ok := types.Keywords[strings.ToUpper(lit)]; ok {
		return types.Token{Kind: kind, Lit: lit, Location: span}, nil
	}

	return types.Token{Kind: types.ID, Lit: lit, Location: span}, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
