package parser

import (
	"io"
	"runtime"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/spigo/ast"
	"github.com/pontaoski/spigo/errors"
	"github.com/pontaoski/spigo/lexer"
	"github.com/pontaoski/spigo/types"
)

var factorKinds = []types.TokenKind{
	types.PLUS,
	types.MINUS,
	types.INTEGER_CONST,
	types.REAL_CONST,
	types.LPAREN,
	types.ID,
}

type Parser struct {
	l       *lexer.Lexer
	current types.Token
	last    types.Token
}

func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// Parse parses a whole program read from r.
func Parse(r io.Reader, filename string) (*ast.Program, error) {
	return NewParser(lexer.NewLexer(r, filename)).Parse()
}

func ParseString(src string) (*ast.Program, error) {
	return Parse(strings.NewReader(src), "")
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string) (ast.Expr, error) {
	return NewParser(lexer.NewLexer(strings.NewReader(src), "")).ParseExpression()
}

func (p *Parser) recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(runtime.Error); ok {
		panic(r)
	}
	if err, ok := r.(error); ok {
		*errp = tracerr.Wrap(err)
		return
	}
	panic(r)
}

func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer p.recover(&err)

	p.advance()
	program := p.parseProgram()
	p.expectEOF()

	return &program, nil
}

func (p *Parser) ParseExpression() (expr ast.Expr, err error) {
	defer p.recover(&err)

	p.advance()
	e := p.parseExpr()
	p.expectEOF()

	return e, nil
}

func (p *Parser) advance() {
	tok, err := p.l.Next()
	if err != nil {
		panic(err)
	}
	p.last = p.current
	p.current = tok
}

func (p *Parser) is(kinds ...types.TokenKind) bool {
	for _, kind := range kinds {
		if p.current.Kind == kind {
			return true
		}
	}
	return false
}

func (p *Parser) unexpected(kinds ...types.TokenKind) {
	panic(errors.ExpectedOneOfKindGotKind{
		Expected: kinds,
		Got:      p.current.Kind,
		Lit:      p.current.Lit,
		Location: p.current.Location,
	})
}

// eat consumes the current token if it is one of kinds.
func (p *Parser) eat(kinds ...types.TokenKind) types.Token {
	if !p.is(kinds...) {
		p.unexpected(kinds...)
	}

	tok := p.current
	p.advance()
	return tok
}

func (p *Parser) expectEOF() {
	if p.current.Kind != types.EOF {
		panic(errors.TrailingInput{
			Got:      p.current.Kind,
			Lit:      p.current.Lit,
			Location: p.current.Location,
		})
	}
}

func ident(tok types.Token) ast.Identifier {
	return ast.Identifier{Name: tok.Lit, Pos: tok.Location}
}

func (p *Parser) parseProgram() ast.Program {
	p.eat(types.PROGRAM)
	name := p.eat(types.ID)
	p.eat(types.SEMI)
	block := p.parseBlock()
	p.eat(types.DOT)

	return ast.Program{
		Name:  ident(name),
		Block: block,
	}
}

func (p *Parser) parseBlock() ast.Block {
	decls := p.parseDeclarations()
	return ast.Block{
		Declarations: decls,
		Body:         p.parseCompound(),
	}
}

func (p *Parser) parseDeclarations() (decls []ast.VarDecl) {
	if !p.is(types.VAR) {
		return nil
	}
	p.eat(types.VAR)

	for {
		decls = append(decls, p.parseVarDecl()...)
		p.eat(types.SEMI)

		if !p.is(types.ID) {
			return decls
		}
	}
}

// parseVarDecl expands `a, b : INTEGER` into one declaration per name.
func (p *Parser) parseVarDecl() []ast.VarDecl {
	names := []types.Token{p.eat(types.ID)}
	for p.is(types.COMMA) {
		p.eat(types.COMMA)
		names = append(names, p.eat(types.ID))
	}
	p.eat(types.COLON)

	kind := types.Integer
	if p.eat(types.INTEGER_TYPE, types.REAL_TYPE).Kind == types.REAL_TYPE {
		kind = types.Real
	}

	decls := make([]ast.VarDecl, 0, len(names))
	for _, name := range names {
		decls = append(decls, ast.VarDecl{Name: ident(name), Type: kind})
	}
	return decls
}

func (p *Parser) parseCompound() ast.Compound {
	p.eat(types.BEGIN)
	statements := p.parseStatementList()
	p.eat(types.END)

	return ast.Compound{Statements: statements}
}

// parseStatementList drops the empty statement after a trailing semicolon;
// empty statements followed by a semicolon become NoOp.
func (p *Parser) parseStatementList() []ast.Statement {
	var statements []ast.Statement

	for {
		stmt, empty := p.parseStatement()

		if !p.is(types.SEMI) {
			if !p.is(types.END) {
				p.unexpected(types.SEMI, types.END)
			}
			if !empty {
				statements = append(statements, stmt)
			}
			return statements
		}

		p.eat(types.SEMI)
		statements = append(statements, stmt)
	}
}

func (p *Parser) parseStatement() (stmt ast.Statement, empty bool) {
	switch p.current.Kind {
	case types.BEGIN:
		return p.parseCompound(), false
	case types.ID:
		return p.parseAssignment(), false
	}

	return ast.NoOp{}, true
}

func (p *Parser) parseAssignment() ast.Assign {
	target := p.eat(types.ID)
	p.eat(types.ASSIGN)
	value := p.parseExpr()

	return ast.Assign{
		Target: ident(target),
		Value:  value,
		Pos:    types.Span{From: target.Location.From, To: p.last.Location.To},
	}
}

func (p *Parser) parseExpr() ast.Expr {
	node := p.parseTerm()

	for p.is(types.PLUS, types.MINUS) {
		op := p.eat(types.PLUS, types.MINUS)
		node = ast.BinOp{
			Left:  node,
			Op:    op.Kind,
			Right: p.parseTerm(),
			Pos:   op.Location,
		}
	}

	return node
}

func (p *Parser) parseTerm() ast.Expr {
	node := p.parseFactor()

	for p.is(types.MUL, types.INTEGER_DIV, types.FLOAT_DIV) {
		op := p.eat(types.MUL, types.INTEGER_DIV, types.FLOAT_DIV)
		node = ast.BinOp{
			Left:  node,
			Op:    op.Kind,
			Right: p.parseFactor(),
			Pos:   op.Location,
		}
	}

	return node
}

func (p *Parser) parseFactor() ast.Expr {
	tok := p.eat(factorKinds...)

	switch tok.Kind {
	case types.PLUS, types.MINUS:
		return ast.UnaryOp{
			Op:      tok.Kind,
			Operand: p.parseFactor(),
			Pos:     tok.Location,
		}
	case types.INTEGER_CONST, types.REAL_CONST:
		return ast.Num{Value: tok.Value, Pos: tok.Location}
	case types.LPAREN:
		expr := p.parseExpr()
		p.eat(types.RPAREN)
		return expr
	case types.ID:
		return ast.Var(ident(tok))
	}

	panic("unhandled")
}
