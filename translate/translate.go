// Package translate renders expressions in prefix (LISP) and postfix
// (reverse Polish) notation.
package translate

import (
	"strings"

	"github.com/pontaoski/spigo/ast"
	"github.com/pontaoski/spigo/types"
)

func operator(op types.TokenKind) string {
	if op == types.INTEGER_DIV {
		return "div"
	}
	return op.Symbol()
}

func leaf(e ast.Expr) (string, bool) {
	switch expr := e.(type) {
	case ast.Num:
		return expr.Value.String(), true
	case ast.Var:
		return expr.Name, true
	}
	return "", false
}

// Lisp renders 2 + 3 * 5 as (+ 2 (* 3 5)).
func Lisp(e ast.Expr) string {
	if s, ok := leaf(e); ok {
		return s
	}

	switch expr := e.(type) {
	case ast.UnaryOp:
		return "(" + operator(expr.Op) + " " + Lisp(expr.Operand) + ")"
	case ast.BinOp:
		return "(" + operator(expr.Op) + " " + Lisp(expr.Left) + " " + Lisp(expr.Right) + ")"
	default:
		panic("unhandled")
	}
}

// Postfix renders (5 + 3) * 12 / 3 as 5 3 + 12 * 3 /. Unary operators
// become neg and pos.
func Postfix(e ast.Expr) string {
	var out []string
	postfix(e, &out)
	return strings.Join(out, " ")
}

func postfix(e ast.Expr, out *[]string) {
	if s, ok := leaf(e); ok {
		*out = append(*out, s)
		return
	}

	switch expr := e.(type) {
	case ast.UnaryOp:
		postfix(expr.Operand, out)
		if expr.Op == types.MINUS {
			*out = append(*out, "neg")
		} else {
			*out = append(*out, "pos")
		}
	case ast.BinOp:
		postfix(expr.Left, out)
		postfix(expr.Right, out)
		*out = append(*out, operator(expr.Op))
	default:
		panic("unhandled")
	}
}
