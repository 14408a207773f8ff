package lexer

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/pontaoski/spigo/errors"
	"github.com/pontaoski/spigo/types"
)

type testToken struct {
	kind types.TokenKind
	lit  string
}

func lexToEOF(t *testing.T, src string) []testToken {
	t.Helper()

	tokens, err := All(strings.NewReader(src), "test")
	if err != nil {
		t.Fatalf("lexing %q: %s", src, err)
	}

	var ret []testToken
	for _, tok := range tokens {
		ret = append(ret, testToken{tok.Kind, tok.Lit})
	}
	return ret
}

func compareTokens(t *testing.T, got, expected []testToken) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("got %d tokens, expected %d: %v", len(got), len(expected), got)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("token %d: got %v, expected %v", i, got[i], expected[i])
		}
	}
}

func TestLexerSimple(t *testing.T) {
	got := lexToEOF(t, " 1 + 2 -   (-3.4) ")
	compareTokens(t, got, []testToken{
		{types.INTEGER_CONST, "1"},
		{types.PLUS, "+"},
		{types.INTEGER_CONST, "2"},
		{types.MINUS, "-"},
		{types.LPAREN, "("},
		{types.MINUS, "-"},
		{types.REAL_CONST, "3.4"},
		{types.RPAREN, ")"},
	})
}

func TestLexerProgram(t *testing.T) {
	src := `PROGRAM Part10;
VAR
   number     : INTEGER;
   a, b       : INTEGER;
   y          : REAL;

BEGIN {Part10}
   number := 2;
   b := 10 * a + 10 * number DIV 4;
   y := 20 / 7 + 3.14;
END.  {Part10}`

	got := lexToEOF(t, src)
	compareTokens(t, got, []testToken{
		{types.PROGRAM, "PROGRAM"},
		{types.ID, "Part10"},
		{types.SEMI, ";"},
		{types.VAR, "VAR"},
		{types.ID, "number"},
		{types.COLON, ":"},
		{types.INTEGER_TYPE, "INTEGER"},
		{types.SEMI, ";"},
		{types.ID, "a"},
		{types.COMMA, ","},
		{types.ID, "b"},
		{types.COLON, ":"},
		{types.INTEGER_TYPE, "INTEGER"},
		{types.SEMI, ";"},
		{types.ID, "y"},
		{types.COLON, ":"},
		{types.REAL_TYPE, "REAL"},
		{types.SEMI, ";"},
		{types.BEGIN, "BEGIN"},
		{types.ID, "number"},
		{types.ASSIGN, ":="},
		{types.INTEGER_CONST, "2"},
		{types.SEMI, ";"},
		{types.ID, "b"},
		{types.ASSIGN, ":="},
		{types.INTEGER_CONST, "10"},
		{types.MUL, "*"},
		{types.ID, "a"},
		{types.PLUS, "+"},
		{types.INTEGER_CONST, "10"},
		{types.MUL, "*"},
		{types.ID, "number"},
		{types.INTEGER_DIV, "DIV"},
		{types.INTEGER_CONST, "4"},
		{types.SEMI, ";"},
		{types.ID, "y"},
		{types.ASSIGN, ":="},
		{types.INTEGER_CONST, "20"},
		{types.FLOAT_DIV, "/"},
		{types.INTEGER_CONST, "7"},
		{types.PLUS, "+"},
		{types.REAL_CONST, "3.14"},
		{types.SEMI, ";"},
		{types.END, "END"},
		{types.DOT, "."},
	})
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	got := lexToEOF(t, "begin Begin BEGIN div Program vAr integer real end x")
	compareTokens(t, got, []testToken{
		{types.BEGIN, "begin"},
		{types.BEGIN, "Begin"},
		{types.BEGIN, "BEGIN"},
		{types.INTEGER_DIV, "div"},
		{types.PROGRAM, "Program"},
		{types.VAR, "vAr"},
		{types.INTEGER_TYPE, "integer"},
		{types.REAL_TYPE, "real"},
		{types.END, "end"},
		{types.ID, "x"},
	})
}

func TestColonAndAssign(t *testing.T) {
	got := lexToEOF(t, "a:=1 b : c:")
	compareTokens(t, got, []testToken{
		{types.ID, "a"},
		{types.ASSIGN, ":="},
		{types.INTEGER_CONST, "1"},
		{types.ID, "b"},
		{types.COLON, ":"},
		{types.ID, "c"},
		{types.COLON, ":"},
	})
}

func TestNumberValues(t *testing.T) {
	tests := []struct {
		src  string
		kind types.TokenKind
		val  types.Number
	}{
		{"42", types.INTEGER_CONST, types.Int(42)},
		{"3.14", types.REAL_CONST, types.Float(3.14)},
		{"7.", types.REAL_CONST, types.Float(7)},
		{"0.5", types.REAL_CONST, types.Float(0.5)},
	}

	for _, test := range tests {
		tok, err := NewLexer(strings.NewReader(test.src), "test").Next()
		if err != nil {
			t.Fatalf("%q: %s", test.src, err)
		}
		if tok.Kind != test.kind || tok.Value != test.val {
			t.Errorf("%q: got %s %v, expected %s %v", test.src, tok.Kind, tok.Value, test.kind, test.val)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	with := lexToEOF(t, "a { this is ignored } := { another\nline } 1")
	without := lexToEOF(t, "a := 1")
	compareTokens(t, with, without)
}

func TestEOFRepeats(t *testing.T) {
	l := NewLexer(strings.NewReader("x"), "test")
	if tok, _ := l.Next(); tok.Kind != types.ID {
		t.Fatalf("expected an ID, got %s", tok)
	}
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Kind != types.EOF || tok.Lit != "" {
			t.Fatalf("call %d: expected EOF, got %s", i, tok)
		}
	}
}

func TestPeek(t *testing.T) {
	l := NewLexer(strings.NewReader("a b"), "test")
	peeked, _ := l.Peek()
	next, _ := l.Next()
	if peeked != next || next.Lit != "a" {
		t.Fatalf("peek returned %s, next returned %s", peeked, next)
	}
	if next, _ = l.Next(); next.Lit != "b" {
		t.Fatalf("expected b, got %s", next)
	}
}

func TestPositions(t *testing.T) {
	tokens, err := All(strings.NewReader("a :=\n  42"), "pos.pas")
	if err != nil {
		t.Fatal(err)
	}

	expected := []types.Position{
		{Line: 1, Column: 1, Filename: "pos.pas"},
		{Line: 1, Column: 3, Filename: "pos.pas"},
		{Line: 2, Column: 3, Filename: "pos.pas"},
	}
	for i, tok := range tokens {
		if tok.Location.From != expected[i] {
			t.Errorf("token %d (%s): got %s, expected %s", i, tok, tok.Location.From, expected[i])
		}
	}
	if to := tokens[2].Location.To; to.Column != 4 {
		t.Errorf("expected 42 to end at column 4, got %s", to)
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		src  string
		char rune
		pos  types.Position
	}{
		{"1 @ 2", '@', types.Position{Line: 1, Column: 3, Filename: "test"}},
		{"a := 1;\n  b := #", '#', types.Position{Line: 2, Column: 8, Filename: "test"}},
		{"a { never closed", '{', types.Position{Line: 1, Column: 3, Filename: "test"}},
		{"99999999999999999999", '9', types.Position{Line: 1, Column: 1, Filename: "test"}},
	}

	for _, test := range tests {
		_, err := All(strings.NewReader(test.src), "test")
		if err == nil {
			t.Fatalf("%q: expected an error", test.src)
		}
		if !stderrors.Is(err, errors.ErrLexical) {
			t.Errorf("%q: expected a lexical error, got %s", test.src, err)
		}

		var lexErr errors.LexicalError
		if !stderrors.As(err, &lexErr) {
			t.Fatalf("%q: expected a LexicalError, got %T", test.src, err)
		}
		if lexErr.Char != test.char || lexErr.Location != test.pos {
			t.Errorf("%q: got %q at %s, expected %q at %s", test.src, lexErr.Char, lexErr.Location, test.char, test.pos)
		}
	}
}
