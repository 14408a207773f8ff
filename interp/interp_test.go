package interp

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/alecthomas/repr"

	"github.com/pontaoski/spigo/errors"
	"github.com/pontaoski/spigo/parser"
	"github.com/pontaoski/spigo/types"
)

const part10 = `PROGRAM Part10;
VAR number, a, b, c, x : INTEGER;
BEGIN
    BEGIN
        number := 2;
        a := number;
        b := 10 * a + 10 * number DIV 4;
        c := a - - b
    END;
    x := 11;
END.`

var part10Scope = Scope{
	"NUMBER": types.Int(2),
	"A":      types.Int(2),
	"B":      types.Int(25),
	"C":      types.Int(27),
	"X":      types.Int(11),
}

func compareScopes(t *testing.T, got, expected Scope) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("got %s, expected %s", repr.String(got), repr.String(expected))
	}
	for name, val := range expected {
		if got[name] != val {
			t.Errorf("%s: got %s (%s), expected %s (%s)", name, got[name], got[name].Kind, val, val.Kind)
		}
	}
}

func evalExpr(t *testing.T, src string) types.Number {
	t.Helper()

	expr, err := parser.ParseExpression(src)
	if err != nil {
		t.Fatalf("parsing %q: %s", src, err)
	}
	val, err := EvaluateExpr(expr, nil)
	if err != nil {
		t.Fatalf("evaluating %q: %s", src, err)
	}
	return val
}

func TestPart10(t *testing.T) {
	scope, err := Run(part10, Options{})
	if err != nil {
		t.Fatal(err)
	}
	compareScopes(t, scope, part10Scope)
}

func TestCaseInsensitiveScope(t *testing.T) {
	scope, err := Run(`PROGRAM Part10;
VAR number, a, b, c, x : INTEGER;
BEGIN

    BEGIN
        number := 2;
        a := NumBer;
        B := 10 * a + 10 * NUMBER div 4;
        c := a - - b
    end;

    x := 11;
END.`, Options{})
	if err != nil {
		t.Fatal(err)
	}
	compareScopes(t, scope, part10Scope)

	if v, ok := scope.Lookup("nUmBeR"); !ok || v != types.Int(2) {
		t.Errorf("lookup by mixed case failed: %v %v", v, ok)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src      string
		expected types.Number
	}{
		{"3 + 4", types.Int(7)},
		{"3 + 4.0", types.Float(7)},
		{"7 / 2", types.Float(3.5)},
		{"8 / 2", types.Float(4)},
		{"7 DIV 2", types.Int(3)},
		{"-7 DIV 2", types.Int(-3)},
		{"7 DIV -2", types.Int(-3)},
		{"2 + 3 * 4", types.Int(14)},
		{"(2 + 3) * 4", types.Int(20)},
		{"10 - 2 - 3", types.Int(5)},
		{"- -5", types.Int(5)},
		{"-5", types.Int(-5)},
		{"+5", types.Int(5)},
		{"-2.5", types.Float(-2.5)},
		{"2 * 1.5", types.Float(3)},
		{"12 + 3 * 3 - 10 / 2", types.Float(16)},
		{"4*12+2", types.Int(50)},
		{"3 * (4 + 2)", types.Int(18)},
		{"7 + 3 * (10 DIV (12 DIV (3 + 1) - 1))", types.Int(22)},
	}

	for _, test := range tests {
		got := evalExpr(t, test.src)
		if got != test.expected {
			t.Errorf("%q: got %s (%s), expected %s (%s)", test.src, got, got.Kind, test.expected, test.expected.Kind)
		}
	}
}

func TestRealDeclarationsAreNotEnforcedByDefault(t *testing.T) {
	scope, err := Run(`PROGRAM p;
VAR i : INTEGER; r : REAL;
BEGIN
    i := 20 / 7 + 3.14;
    r := 2
END.`, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !scope["I"].IsReal() {
		t.Errorf("expected a real to be stored into I, got %s", scope["I"])
	}
	if scope["R"] != types.Int(2) {
		t.Errorf("expected R to keep its integer value, got %s", scope["R"])
	}
}

func TestStrictTypes(t *testing.T) {
	scope, err := Run("PROGRAM p; VAR r : REAL; BEGIN r := 2 END.", Options{StrictTypes: true})
	if err != nil {
		t.Fatal(err)
	}
	if scope["R"] != types.Float(2) {
		t.Errorf("expected R to be promoted to 2.0, got %s (%s)", scope["R"], scope["R"].Kind)
	}

	_, err = Run("PROGRAM p; VAR i : INTEGER; BEGIN i := 1 / 2 END.", Options{StrictTypes: true})
	var mismatch errors.TypeMismatch
	if !stderrors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	if mismatch.Name != "i" || mismatch.Declared != types.Integer || mismatch.Got != types.Real {
		t.Errorf("unexpected mismatch %s", mismatch)
	}

	_, err = Run("PROGRAM p; BEGIN y := 1 END.", Options{StrictTypes: true})
	var undeclared errors.UndeclaredVariable
	if !stderrors.As(err, &undeclared) || undeclared.Name != "y" {
		t.Fatalf("expected UndeclaredVariable y, got %v", err)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src    string
		target interface{}
	}{
		{"PROGRAM p; BEGIN x := 1 / 0 END.", &errors.DivisionByZero{}},
		{"PROGRAM p; BEGIN x := 1.5 / 0.0 END.", &errors.DivisionByZero{}},
		{"PROGRAM p; BEGIN y := 1 DIV 0 END.", &errors.DivisionByZero{}},
		{"PROGRAM p; BEGIN y := 1 DIV 0.5 END.", &errors.OperandType{}},
		{"PROGRAM p; BEGIN x := 1; y := x + z END.", &errors.UndefinedVariable{}},
	}

	for _, test := range tests {
		scope, err := Run(test.src, Options{})
		if err == nil {
			t.Fatalf("%q: expected an error", test.src)
		}
		if scope != nil {
			t.Errorf("%q: partial scope returned: %s", test.src, repr.String(scope))
		}
		if !stderrors.Is(err, errors.ErrRuntime) {
			t.Errorf("%q: expected a runtime error, got %s", test.src, err)
		}
		if !stderrors.As(err, test.target) {
			t.Errorf("%q: expected %T, got %T: %s", test.src, test.target, err, err)
		}
	}
}

func TestUndefinedVariableName(t *testing.T) {
	_, err := Run("PROGRAM p; BEGIN x := 1; y := x + z END.", Options{})

	var undefined errors.UndefinedVariable
	if !stderrors.As(err, &undefined) {
		t.Fatalf("expected UndefinedVariable, got %v", err)
	}
	if undefined.Name != "z" {
		t.Errorf("expected z, got %s", undefined.Name)
	}
	if undefined.Location.From.Column != 35 {
		t.Errorf("expected z at column 35, got %s", undefined.Location)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind error
	}{
		{"PROGRAM p; BEGIN x := 1 @ 2 END.", errors.ErrLexical},
		{"BEGIN x := END.", errors.ErrSyntax},
		{"PROGRAM p; BEGIN x := END.", errors.ErrSyntax},
		{"PROGRAM p; BEGIN x := 1/0 END.", errors.ErrRuntime},
	}

	for _, test := range tests {
		_, err := Run(test.src, Options{})
		if !stderrors.Is(err, test.kind) {
			t.Errorf("%q: expected %s, got %v", test.src, test.kind, err)
		}
	}
}

func TestIndependentRuns(t *testing.T) {
	prog, err := parser.ParseString(part10)
	if err != nil {
		t.Fatal(err)
	}

	first, err := Evaluate(prog, Options{})
	if err != nil {
		t.Fatal(err)
	}
	first["A"] = types.Int(100)

	second, err := Evaluate(prog, Options{})
	if err != nil {
		t.Fatal(err)
	}
	compareScopes(t, second, part10Scope)
}

func TestEvaluateExprWithScope(t *testing.T) {
	expr, err := parser.ParseExpression("a * 2 + B")
	if err != nil {
		t.Fatal(err)
	}
	val, err := EvaluateExpr(expr, Scope{"A": types.Int(3), "B": types.Float(0.5)})
	if err != nil {
		t.Fatal(err)
	}
	if val != types.Float(6.5) {
		t.Errorf("got %s", val)
	}
}

func TestScopeNames(t *testing.T) {
	if got := fmt.Sprint(part10Scope.Names()); got != "[A B C NUMBER X]" {
		t.Errorf("got %s", got)
	}
}
