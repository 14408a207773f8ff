package main

import (
	"strings"
	"testing"

	"github.com/alecthomas/participle"
)

const sample = `import "example.com/types";

type Node = interface;

type Leaf = {
	Value: types.Number;
	Children: []Node;
} is Node;

type Name = string is Node;
`

func TestGenerateDecls(t *testing.T) {
	parser := participle.MustBuild(&TypeDecls{}, participle.Unquote("String"))

	decls := TypeDecls{}
	if err := parser.ParseString(sample, &decls); err != nil {
		t.Fatal(err)
	}
	if len(decls.Declarations) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(decls.Declarations))
	}

	out := GenerateDecls("nodes", &decls)
	for _, want := range []string{
		"package nodes",
		"DO NOT EDIT",
		`"example.com/types"`,
		"type Node interface",
		"is_Node()",
		"Value    types.Number",
		"Children []Node",
		"func (v Leaf) is_Node() {}",
		"type Name string",
		"func (v Name) is_Node() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated code does not contain %q:\n%s", want, out)
		}
	}
}
