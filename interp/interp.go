package interp

import (
	"sort"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/spigo/ast"
	"github.com/pontaoski/spigo/errors"
	"github.com/pontaoski/spigo/parser"
	"github.com/pontaoski/spigo/types"
)

// Scope maps upper-cased variable names to their values.
type Scope map[string]types.Number

// Names returns the bound names in sorted order.
func (s Scope) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Scope) Lookup(name string) (types.Number, bool) {
	v, ok := s[strings.ToUpper(name)]
	return v, ok
}

type Options struct {
	// StrictTypes checks assignments against the VAR block: undeclared
	// targets and REAL values stored into INTEGER variables are errors.
	StrictTypes bool
}

type ctx struct {
	scope    Scope
	declared map[string]types.NumKind
	opts     Options
}

// Run parses and evaluates src.
func Run(src string, opts Options) (Scope, error) {
	prog, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	return Evaluate(prog, opts)
}

// Evaluate executes p against a fresh scope. On error no bindings are
// returned.
func Evaluate(p *ast.Program, opts Options) (Scope, error) {
	c := &ctx{
		scope:    Scope{},
		declared: map[string]types.NumKind{},
		opts:     opts,
	}

	for _, decl := range p.Block.Declarations {
		name := strings.ToUpper(decl.Name.Name)
		if _, ok := c.declared[name]; !ok {
			c.declared[name] = decl.Type
		}
	}

	if err := c.compound(p.Block.Body); err != nil {
		return nil, tracerr.Wrap(err)
	}

	return c.scope, nil
}

// EvaluateExpr evaluates e, resolving variables in scope. scope may be nil.
func EvaluateExpr(e ast.Expr, scope Scope) (types.Number, error) {
	if scope == nil {
		scope = Scope{}
	}
	c := &ctx{scope: scope}

	v, err := c.expr(e)
	if err != nil {
		return types.Number{}, tracerr.Wrap(err)
	}
	return v, nil
}

func (c *ctx) compound(comp ast.Compound) error {
	for _, stmt := range comp.Statements {
		if err := c.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *ctx) statement(s ast.Statement) error {
	switch stmt := s.(type) {
	case ast.Compound:
		return c.compound(stmt)
	case ast.Assign:
		return c.assign(stmt)
	case ast.NoOp:
		return nil
	default:
		panic("unhandled")
	}
}

func (c *ctx) assign(a ast.Assign) error {
	val, err := c.expr(a.Value)
	if err != nil {
		return err
	}

	name := strings.ToUpper(a.Target.Name)

	if c.opts.StrictTypes {
		kind, ok := c.declared[name]
		if !ok {
			return errors.UndeclaredVariable{Name: a.Target.Name, Location: a.Target.Pos}
		}

		switch {
		case kind == types.Integer && val.IsReal():
			return errors.TypeMismatch{
				Name:     a.Target.Name,
				Declared: kind,
				Got:      val.Kind,
				Location: a.Pos,
			}
		case kind == types.Real && !val.IsReal():
			val = types.Float(val.Float64())
		}
	}

	c.scope[name] = val
	return nil
}

func (c *ctx) expr(e ast.Expr) (types.Number, error) {
	switch expr := e.(type) {
	case ast.Num:
		return expr.Value, nil
	case ast.Var:
		val, ok := c.scope[strings.ToUpper(expr.Name)]
		if !ok {
			return types.Number{}, errors.UndefinedVariable{Name: expr.Name, Location: expr.Pos}
		}
		return val, nil
	case ast.UnaryOp:
		val, err := c.expr(expr.Operand)
		if err != nil {
			return types.Number{}, err
		}
		if expr.Op == types.PLUS {
			return val, nil
		}
		if val.IsReal() {
			return types.Float(-val.Real), nil
		}
		return types.Int(-val.Int), nil
	case ast.BinOp:
		left, err := c.expr(expr.Left)
		if err != nil {
			return types.Number{}, err
		}
		right, err := c.expr(expr.Right)
		if err != nil {
			return types.Number{}, err
		}
		return binary(expr, left, right)
	default:
		panic("unhandled")
	}
}

// binary applies op. DIV truncates toward zero; integer overflow wraps.
func binary(expr ast.BinOp, left, right types.Number) (types.Number, error) {
	promote := left.IsReal() || right.IsReal()

	switch expr.Op {
	case types.PLUS:
		if promote {
			return types.Float(left.Float64() + right.Float64()), nil
		}
		return types.Int(left.Int + right.Int), nil
	case types.MINUS:
		if promote {
			return types.Float(left.Float64() - right.Float64()), nil
		}
		return types.Int(left.Int - right.Int), nil
	case types.MUL:
		if promote {
			return types.Float(left.Float64() * right.Float64()), nil
		}
		return types.Int(left.Int * right.Int), nil
	case types.INTEGER_DIV:
		if promote {
			return types.Number{}, errors.OperandType{Op: expr.Op, Location: expr.Pos}
		}
		if right.Int == 0 {
			return types.Number{}, errors.DivisionByZero{Op: expr.Op, Location: expr.Pos}
		}
		return types.Int(left.Int / right.Int), nil
	case types.FLOAT_DIV:
		if right.IsZero() {
			return types.Number{}, errors.DivisionByZero{Op: expr.Op, Location: expr.Pos}
		}
		return types.Float(left.Float64() / right.Float64()), nil
	default:
		panic("unhandled")
	}
}
