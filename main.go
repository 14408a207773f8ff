package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/pontaoski/spigo/codegen"
	"github.com/pontaoski/spigo/config"
	"github.com/pontaoski/spigo/interp"
	"github.com/pontaoski/spigo/lexer"
	"github.com/pontaoski/spigo/parser"
	"github.com/pontaoski/spigo/translate"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	nameColor  = color.New(color.FgCyan)
	posColor   = color.New(color.Bold)
)

const skeleton = `PROGRAM %s;
VAR x : INTEGER;
BEGIN
    x := 2 + 3 * 4
END.
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("spigo: ")

	app := &cli.App{
		Name:  "spigo",
		Usage: "a small Pascal interpreter and compiler",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print a stack trace with errors",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable coloured output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			if c.Bool("trace") {
				tracerr.PrintSourceColor(err)
			} else {
				fmt.Fprintf(os.Stderr, "%s %s\n", errorLabel.Sprint("error:"), err)
			}
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "interpret a program and print its variables",
				ArgsUsage: "[FILE|-]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: "text",
						Usage: "text or yaml",
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "check assignments against declared types",
					},
				},
				Action: func(c *cli.Context) error {
					src, err := openSource(c.Args().First())
					if err != nil {
						return err
					}
					defer src.Close()

					prog, err := parser.Parse(src, src.name)
					if err != nil {
						return err
					}

					strict := c.Bool("strict") || (src.project != nil && src.project.StrictTypes)
					scope, err := interp.Evaluate(prog, interp.Options{StrictTypes: strict})
					if err != nil {
						return err
					}

					return printScope(os.Stdout, scope, c.String("format"))
				},
			},
			{
				Name:      "tokens",
				Usage:     "print the tokens of a program",
				ArgsUsage: "[FILE|-]",
				Action: func(c *cli.Context) error {
					src, err := openSource(c.Args().First())
					if err != nil {
						return err
					}
					defer src.Close()

					toks, err := lexer.All(src, src.name)
					if err != nil {
						return err
					}
					for _, tok := range toks {
						fmt.Printf("%s\t%s\n", posColor.Sprint(tok.Location.From), tok)
					}
					return nil
				},
			},
			{
				Name:      "ast",
				Usage:     "dump the syntax tree of a program",
				ArgsUsage: "[FILE|-]",
				Action: func(c *cli.Context) error {
					src, err := openSource(c.Args().First())
					if err != nil {
						return err
					}
					defer src.Close()

					prog, err := parser.Parse(src, src.name)
					if err != nil {
						return err
					}
					repr.Println(prog)
					return nil
				},
			},
			{
				Name:      "calc",
				Usage:     "evaluate an arithmetic expression",
				ArgsUsage: "EXPR",
				Action: func(c *cli.Context) error {
					expr, err := parser.ParseExpression(strings.Join(c.Args().Slice(), " "))
					if err != nil {
						return err
					}
					val, err := interp.EvaluateExpr(expr, nil)
					if err != nil {
						return err
					}
					fmt.Println(val)
					return nil
				},
			},
			{
				Name:      "translate",
				Usage:     "print an expression in another notation",
				ArgsUsage: "EXPR",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "notation",
						Value: "lisp",
						Usage: "lisp or postfix",
					},
				},
				Action: func(c *cli.Context) error {
					expr, err := parser.ParseExpression(strings.Join(c.Args().Slice(), " "))
					if err != nil {
						return err
					}
					switch c.String("notation") {
					case "lisp":
						fmt.Println(translate.Lisp(expr))
					case "postfix":
						fmt.Println(translate.Postfix(expr))
					default:
						return fmt.Errorf("unknown notation %q", c.String("notation"))
					}
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "compile a program to a native executable",
				ArgsUsage: "[FILE|-]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the LLVM IR instead of linking",
					},
					&cli.BoolFlag{
						Name:  "library",
						Usage: "build a shared library exporting spi_run",
					},
				},
				Action: build,
			},
			{
				Name:      "symbols",
				Usage:     "dump the symbol table of a compiled library",
				ArgsUsage: "LIB",
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("expected one library path")
					}
					table, err := codegen.ReadSymbolTable(c.Args().First())
					if err != nil {
						return err
					}
					repr.Println(table)
					return nil
				},
			},
			{
				Name:      "init",
				Usage:     "create a project in the current directory",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "toml",
						Usage: "write spi.toml instead of spi.yaml",
					},
				},
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("no package name provided")
					}

					file := config.YAMLFile
					if c.Bool("toml") {
						file = config.TOMLFile
					}
					if _, err := config.Find("."); err == nil {
						return fmt.Errorf("a project already exists here")
					}

					err := config.Save(file, config.Project{Package: name, Entry: config.DefaultEntry})
					if err != nil {
						return fmt.Errorf("error creating %s: %w", file, err)
					}

					if _, err := os.Stat(config.DefaultEntry); os.IsNotExist(err) {
						return ioutil.WriteFile(config.DefaultEntry, []byte(fmt.Sprintf(skeleton, name)), 0644)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type source struct {
	io.ReadCloser
	name    string
	project *config.Project
}

// openSource opens path, stdin for "-", or the entry of the project in
// the working directory when path is empty.
func openSource(path string) (*source, error) {
	switch path {
	case "-":
		return &source{ReadCloser: ioutil.NopCloser(os.Stdin), name: "<stdin>"}, nil
	case "":
		file, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		project, err := config.Load(file)
		if err != nil {
			return nil, err
		}
		handle, err := os.Open(project.Entry)
		if err != nil {
			return nil, err
		}
		return &source{ReadCloser: handle, name: project.Entry, project: project}, nil
	}

	handle, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &source{ReadCloser: handle, name: path}, nil
}

func printScope(w io.Writer, scope interp.Scope, format string) error {
	switch format {
	case "text":
		for _, name := range scope.Names() {
			fmt.Fprintf(w, "%s = %s\n", nameColor.Sprint(name), scope[name])
		}
		return nil
	case "yaml":
		values := make(map[string]interface{}, len(scope))
		for name, val := range scope {
			values[name] = val.Value()
		}
		out, err := yaml.Marshal(values)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func build(c *cli.Context) error {
	src, err := openSource(c.Args().First())
	if err != nil {
		return err
	}
	defer src.Close()

	prog, err := parser.Parse(src, src.name)
	if err != nil {
		return err
	}

	library := c.Bool("library")
	module, err := codegen.Compile(prog, codegen.Settings{Library: library})
	if err != nil {
		return err
	}

	if c.Bool("dump") {
		fmt.Println(module.String())
		return nil
	}

	out := c.String("output")
	if out == "" && src.project != nil {
		out = src.project.Output
	}
	if out == "" {
		out = strings.TrimSuffix(filepath.Base(src.name), filepath.Ext(src.name))
	}
	if library && filepath.Ext(out) == "" {
		out += ".so"
	}

	fi, err := ioutil.TempFile("", "*.ll")
	if err != nil {
		return err
	}
	defer os.Remove(fi.Name())
	defer fi.Close()

	if _, err = io.Copy(fi, strings.NewReader(module.String())); err != nil {
		return err
	}

	cmd := exec.Command("clang", "-o", out)
	if library {
		cmd.Args = append(cmd.Args, "-shared", "-fPIC")
	}
	cmd.Args = append(cmd.Args, fi.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err = cmd.Run(); err != nil {
		return tracerr.Wrap(err)
	}
	return nil
}
