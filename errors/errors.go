package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pontaoski/spigo/types"
)

var (
	// ErrLexical matches every error raised while tokenizing.
	ErrLexical = errors.New("lexical error")
	// ErrSyntax matches every error raised while parsing.
	ErrSyntax = errors.New("syntax error")
	// ErrRuntime matches every error raised while evaluating or compiling.
	ErrRuntime = errors.New("runtime error")
)

type LexicalError struct {
	Char     rune
	Message  string
	Location types.Position
}

func (e LexicalError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Location)
	}
	return fmt.Sprintf("unexpected character %q. %s", e.Char, e.Location)
}

func (e LexicalError) Is(target error) bool { return target == ErrLexical }

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.TokenKind
	Lit      string
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	var names []string
	for _, kind := range e.Expected {
		names = append(names, kind.String())
	}
	got := e.Got.String()
	if e.Lit != "" {
		got = fmt.Sprintf("%s %q", got, e.Lit)
	}
	if len(names) == 1 {
		return fmt.Sprintf("got a %s, expected a %s. %s", got, names[0], e.Location)
	}
	return fmt.Sprintf("got a %s, expected one of %s. %s", got, strings.Join(names, ", "), e.Location)
}

func (e ExpectedOneOfKindGotKind) Is(target error) bool { return target == ErrSyntax }

type TrailingInput struct {
	Got      types.TokenKind
	Lit      string
	Location types.Span
}

func (e TrailingInput) Error() string {
	return fmt.Sprintf("unexpected %s %q after end of input. %s", e.Got, e.Lit, e.Location)
}

func (e TrailingInput) Is(target error) bool { return target == ErrSyntax }

type UndefinedVariable struct {
	Name     string
	Location types.Span
}

func (e UndefinedVariable) Error() string {
	return fmt.Sprintf("variable %s is not defined. %s", e.Name, e.Location)
}

func (e UndefinedVariable) Is(target error) bool { return target == ErrRuntime }

type UndeclaredVariable struct {
	Name     string
	Location types.Span
}

func (e UndeclaredVariable) Error() string {
	return fmt.Sprintf("variable %s was never declared. %s", e.Name, e.Location)
}

func (e UndeclaredVariable) Is(target error) bool { return target == ErrRuntime }

type DivisionByZero struct {
	Op       types.TokenKind
	Location types.Span
}

func (e DivisionByZero) Error() string {
	return fmt.Sprintf("division by zero in %s. %s", e.Op.Symbol(), e.Location)
}

func (e DivisionByZero) Is(target error) bool { return target == ErrRuntime }

type OperandType struct {
	Op       types.TokenKind
	Location types.Span
}

func (e OperandType) Error() string {
	return fmt.Sprintf("operands of %s must both be INTEGER. %s", e.Op.Symbol(), e.Location)
}

func (e OperandType) Is(target error) bool { return target == ErrRuntime }

type TypeMismatch struct {
	Name     string
	Declared types.NumKind
	Got      types.NumKind
	Location types.Span
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("cannot assign a %s value to %s, which is declared %s. %s", e.Got, e.Name, e.Declared, e.Location)
}

func (e TypeMismatch) Is(target error) bool { return target == ErrRuntime }
