package codegen

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/spigo/ast"
	"github.com/pontaoski/spigo/errors"
	spi "github.com/pontaoski/spigo/types"
)

type Settings struct {
	// Library emits spi_run instead of main and does not print the
	// variables, so the globals can be read by the host.
	Library bool
}

type variable struct {
	global *ir.Global
	kind   spi.NumKind
}

type ctx struct {
	module  *ir.Module
	fn      *ir.Func
	block   *ir.Block
	vars    map[string]variable
	order   []string
	printf  *ir.Func
	divZero *ir.Block
	blocks  int
}

func llvmType(kind spi.NumKind) types.Type {
	if kind == spi.Real {
		return types.Double
	}
	return types.I64
}

func zero(kind spi.NumKind) constant.Constant {
	if kind == spi.Real {
		return constant.NewFloat(types.Double, 0)
	}
	return constant.NewInt(types.I64, 0)
}

// Compile lowers p to an LLVM module with one global per declared variable.
func Compile(p *ast.Program, s Settings) (m *ir.Module, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(runtime.Error); ok {
			panic(r)
		}
		if rerr, ok := r.(error); ok {
			m = nil
			err = tracerr.Wrap(rerr)
			return
		}
		panic(r)
	}()

	c := &ctx{
		module: ir.NewModule(),
		vars:   map[string]variable{},
	}
	c.module.SourceFilename = p.Name.Pos.From.Filename

	for _, decl := range p.Block.Declarations {
		name := strings.ToUpper(decl.Name.Name)
		if _, ok := c.vars[name]; ok {
			continue
		}
		c.order = append(c.order, name)
		g := c.module.NewGlobalDef(name, zero(decl.Type))
		c.vars[name] = variable{global: g, kind: decl.Type}
	}

	registerSymbols(Symbols(p), c.module)

	c.printf = c.module.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	c.printf.Sig.Variadic = true

	entry := "main"
	if s.Library {
		entry = "spi_run"
	}
	c.fn = c.module.NewFunc(entry, types.I32)
	c.block = c.fn.NewBlock("entry")

	c.compound(p.Block.Body)

	if !s.Library {
		for _, name := range c.order {
			c.print(name)
		}
	}
	c.block.NewRet(constant.NewInt(types.I32, 0))

	return c.module, nil
}

func (c *ctx) newBlock(prefix string) *ir.Block {
	c.blocks++
	return c.fn.NewBlock(fmt.Sprintf("%s.%d", prefix, c.blocks))
}

// cstring defines a private NUL-terminated string and returns an i8* to it.
func (c *ctx) cstring(name, s string) constant.Constant {
	arr := constant.NewCharArrayFromString(s + "\x00")
	g := c.module.NewGlobalDef(name, arr)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate

	idx := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(arr.Typ, g, idx, idx)
}

func (c *ctx) print(name string) {
	v := c.vars[name]

	format := name + " = %ld\n"
	if v.kind == spi.Real {
		format = name + " = %g\n"
	}

	str := c.cstring(".fmt."+name, format)
	loaded := c.block.NewLoad(llvmType(v.kind), v.global)
	c.block.NewCall(c.printf, str, loaded)
}

// divisionByZero returns the block that reports a zero divisor and exits
// with status 1.
func (c *ctx) divisionByZero() *ir.Block {
	if c.divZero != nil {
		return c.divZero
	}

	c.divZero = c.fn.NewBlock("div.zero")
	msg := c.cstring(".str.divzero", "division by zero\n")
	c.divZero.NewCall(c.printf, msg)
	c.divZero.NewRet(constant.NewInt(types.I32, 1))

	return c.divZero
}

func (c *ctx) checkDivisor(v value.Value, kind spi.NumKind) {
	var isZero value.Value
	if kind == spi.Real {
		isZero = c.block.NewFCmp(enum.FPredOEQ, v, constant.NewFloat(types.Double, 0))
	} else {
		isZero = c.block.NewICmp(enum.IPredEQ, v, constant.NewInt(types.I64, 0))
	}

	cont := c.newBlock("div.ok")
	c.block.NewCondBr(isZero, c.divisionByZero(), cont)
	c.block = cont
}

func (c *ctx) compound(comp ast.Compound) {
	for _, stmt := range comp.Statements {
		switch s := stmt.(type) {
		case ast.Compound:
			c.compound(s)
		case ast.Assign:
			c.assign(s)
		case ast.NoOp:
		default:
			panic("unhandled")
		}
	}
}

func (c *ctx) assign(a ast.Assign) {
	name := strings.ToUpper(a.Target.Name)
	to, ok := c.vars[name]
	if !ok {
		panic(errors.UndeclaredVariable{Name: a.Target.Name, Location: a.Target.Pos})
	}

	val, kind := c.expr(a.Value)
	switch {
	case to.kind == spi.Integer && kind == spi.Real:
		panic(errors.TypeMismatch{
			Name:     a.Target.Name,
			Declared: to.kind,
			Got:      kind,
			Location: a.Pos,
		})
	case to.kind == spi.Real && kind == spi.Integer:
		val = c.block.NewSIToFP(val, types.Double)
	}

	c.block.NewStore(val, to.global)
}

func (c *ctx) toReal(v value.Value, kind spi.NumKind) value.Value {
	if kind == spi.Real {
		return v
	}
	return c.block.NewSIToFP(v, types.Double)
}

func (c *ctx) expr(e ast.Expr) (value.Value, spi.NumKind) {
	switch expr := e.(type) {
	case ast.Num:
		if expr.Value.IsReal() {
			return constant.NewFloat(types.Double, expr.Value.Real), spi.Real
		}
		return constant.NewInt(types.I64, expr.Value.Int), spi.Integer
	case ast.Var:
		v, ok := c.vars[strings.ToUpper(expr.Name)]
		if !ok {
			panic(errors.UndefinedVariable{Name: expr.Name, Location: expr.Pos})
		}
		return c.block.NewLoad(llvmType(v.kind), v.global), v.kind
	case ast.UnaryOp:
		val, kind := c.expr(expr.Operand)
		if expr.Op == spi.PLUS {
			return val, kind
		}
		if kind == spi.Real {
			return c.block.NewFNeg(val), kind
		}
		return c.block.NewSub(constant.NewInt(types.I64, 0), val), kind
	case ast.BinOp:
		return c.binary(expr)
	default:
		panic("unhandled")
	}
}

func (c *ctx) binary(expr ast.BinOp) (value.Value, spi.NumKind) {
	left, lkind := c.expr(expr.Left)
	right, rkind := c.expr(expr.Right)

	switch expr.Op {
	case spi.INTEGER_DIV:
		if lkind == spi.Real || rkind == spi.Real {
			panic(errors.OperandType{Op: expr.Op, Location: expr.Pos})
		}
		c.checkDivisor(right, spi.Integer)
		return c.block.NewSDiv(left, right), spi.Integer
	case spi.FLOAT_DIV:
		left, right = c.toReal(left, lkind), c.toReal(right, rkind)
		c.checkDivisor(right, spi.Real)
		return c.block.NewFDiv(left, right), spi.Real
	}

	if lkind == spi.Integer && rkind == spi.Integer {
		switch expr.Op {
		case spi.PLUS:
			return c.block.NewAdd(left, right), spi.Integer
		case spi.MINUS:
			return c.block.NewSub(left, right), spi.Integer
		case spi.MUL:
			return c.block.NewMul(left, right), spi.Integer
		}
		panic("unhandled")
	}

	left, right = c.toReal(left, lkind), c.toReal(right, rkind)
	switch expr.Op {
	case spi.PLUS:
		return c.block.NewFAdd(left, right), spi.Real
	case spi.MINUS:
		return c.block.NewFSub(left, right), spi.Real
	case spi.MUL:
		return c.block.NewFMul(left, right), spi.Real
	}
	panic("unhandled")
}
