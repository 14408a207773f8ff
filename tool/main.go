package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Imports      []string       `("import" @String ";")*`
	Declarations []*Declaration `@@*`
}

type FieldDecl struct {
	Name string `@Ident ":"`
	Kind string `@("[" "]")? @Ident @("." Ident)? ";"`
}

// Declaration is one of
//
//	type Name = interface;
//	type Name = { Field: Kind; ... } is Sum, ...;
//	type Name = Kind is Sum, ...;
type Declaration struct {
	Name    string       `"type" @Ident "="`
	Sum     bool         `( @"interface"`
	Struct  bool         `| @"{"`
	Fields  []*FieldDecl `  @@* "}"`
	Plain   *string      `| @Ident )`
	Members []string     `("is" @Ident ("," @Ident)*)? ";"`
}

func kindCode(imports map[string]string, kind string) *Statement {
	code := Null()
	if strings.HasPrefix(kind, "[]") {
		code = Index()
		kind = strings.TrimPrefix(kind, "[]")
	}

	if idx := strings.Index(kind, "."); idx != -1 {
		pkg, name := kind[:idx], kind[idx+1:]
		path, ok := imports[pkg]
		if !ok {
			panic("unknown package " + pkg)
		}
		return code.Qual(path, name)
	}

	return code.Id(kind)
}

func GenerateDecls(pkgname string, t *TypeDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtGen. DO NOT EDIT.")

	imports := map[string]string{}
	for _, path := range t.Imports {
		name := path[strings.LastIndex(path, "/")+1:]
		imports[name] = path
		f.ImportName(path, name)
	}

	for _, decl := range t.Declarations {
		switch {
		case decl.Sum:
			f.Type().Id(decl.Name).Interface(
				Id("is_" + decl.Name).Params(),
			)
		case decl.Struct:
			f.Type().Id(decl.Name).StructFunc(func(g *Group) {
				for _, field := range decl.Fields {
					g.Id(field.Name).Add(kindCode(imports, field.Kind))
				}
			})
		case decl.Plain != nil:
			f.Type().Id(decl.Name).Add(kindCode(imports, *decl.Plain))
		}

		for _, sum := range decl.Members {
			f.Func().Params(Id("v").Id(decl.Name)).Id("is_" + sum).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	parser := participle.MustBuild(&TypeDecls{}, participle.Unquote("String"))

	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtGen <in.adt> <out.go> <package>")
		os.Exit(2)
	}

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	ast := TypeDecls{}
	err = parser.ParseBytes(inData, &ast)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(pkgname, &ast)), 0644)
	if err != nil {
		panic(err)
	}
}
