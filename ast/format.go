package ast

//go:generate sh -c "cd ../tool && go run . ../ast/nodes.adt ../ast/nodes.go ast"

import (
	"strings"

	"github.com/pontaoski/spigo/types"
)

const indent = "    "

func precedence(op types.TokenKind) int {
	switch op {
	case types.PLUS, types.MINUS:
		return 1
	case types.MUL, types.INTEGER_DIV, types.FLOAT_DIV:
		return 2
	}
	return 3
}

// Format renders p back into source text. Comments and the original layout
// are not preserved, but parsing the result yields the same tree.
func Format(p *Program) string {
	var b strings.Builder

	b.WriteString("PROGRAM " + p.Name.Name + ";\n")
	if len(p.Block.Declarations) > 0 {
		b.WriteString("VAR\n")
		for _, decl := range p.Block.Declarations {
			b.WriteString(indent + decl.Name.Name + " : " + decl.Type.String() + ";\n")
		}
	}
	formatCompound(&b, p.Block.Body, 0)
	b.WriteString(".\n")

	return b.String()
}

func formatCompound(b *strings.Builder, c Compound, depth int) {
	pad := strings.Repeat(indent, depth)

	b.WriteString("BEGIN\n")
	for i, stmt := range c.Statements {
		b.WriteString(pad + indent)
		formatStatement(b, stmt, depth+1)
		if i < len(c.Statements)-1 {
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
	b.WriteString(pad + "END")
}

func formatStatement(b *strings.Builder, s Statement, depth int) {
	switch stmt := s.(type) {
	case Compound:
		formatCompound(b, stmt, depth)
	case Assign:
		b.WriteString(stmt.Target.Name + " := " + FormatExpr(stmt.Value))
	case NoOp:
	default:
		panic("unhandled")
	}
}

// FormatExpr renders e in infix notation with the fewest parentheses that
// keep its shape.
func FormatExpr(e Expr) string {
	switch expr := e.(type) {
	case Num:
		return expr.Value.String()
	case Var:
		return expr.Name
	case UnaryOp:
		operand := FormatExpr(expr.Operand)
		switch expr.Operand.(type) {
		case BinOp:
			operand = "(" + operand + ")"
		case UnaryOp:
			operand = " " + operand
		}
		return expr.Op.Symbol() + operand
	case BinOp:
		prec := precedence(expr.Op)

		left := FormatExpr(expr.Left)
		if l, ok := expr.Left.(BinOp); ok && precedence(l.Op) < prec {
			left = "(" + left + ")"
		}
		right := FormatExpr(expr.Right)
		if r, ok := expr.Right.(BinOp); ok && precedence(r.Op) <= prec {
			right = "(" + right + ")"
		}

		return left + " " + expr.Op.Symbol() + " " + right
	default:
		panic("unhandled")
	}
}
