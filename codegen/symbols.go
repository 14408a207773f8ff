package codegen

import (
	"encoding/json"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/spigo/ast"
	"github.com/pontaoski/spigo/reader"
)

// SymbolTable describes the variables a compiled program exports.
type SymbolTable struct {
	Program   string            `json:"program"`
	Variables map[string]string `json:"variables"`
}

func Symbols(p *ast.Program) SymbolTable {
	t := SymbolTable{
		Program:   p.Name.Name,
		Variables: map[string]string{},
	}
	for _, decl := range p.Block.Declarations {
		name := strings.ToUpper(decl.Name.Name)
		if _, ok := t.Variables[name]; ok {
			continue
		}
		t.Variables[name] = decl.Type.String()
	}
	return t
}

func registerSymbols(t SymbolTable, m *ir.Module) {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	g := m.NewGlobalDef(reader.SymbolsGlobal, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

// ReadSymbolTable loads the symbol table of a library built with
// Settings.Library.
func ReadSymbolTable(path string) (t SymbolTable, err error) {
	data, err := reader.ReadSymbols(path)
	if err != nil {
		return SymbolTable{}, tracerr.Wrap(err)
	}

	if err = json.Unmarshal([]byte(data), &t); err != nil {
		return SymbolTable{}, tracerr.Wrap(err)
	}
	return t, nil
}
