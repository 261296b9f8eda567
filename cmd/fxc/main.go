// Command fxc is the FX effect compiler front end CLI.
//
// Usage:
//
//	fxc check shader.fx                  # Compile and print diagnostics
//	fxc dump shader.fx                   # Print the resolved module layout
//	fxc watch shader.fx                  # Recompile whenever the file changes
//	fxc check -D QUALITY=2 shader.fx     # Inject a spec-constant override
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/gogpu/fxc"
	"github.com/gogpu/fxc/fx"
)

func main() {
	app := &cli.App{
		Name:  "fxc",
		Usage: "compile FX effect files and report diagnostics",
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "compile an effect file and print its diagnostics",
				ArgsUsage: "<input.fx>",
				Flags:     []cli.Flag{defineFlag()},
				Action:    runCheck,
			},
			{
				Name:      "dump",
				Usage:     "compile an effect file and print the resolved module layout",
				ArgsUsage: "<input.fx>",
				Flags:     []cli.Flag{defineFlag()},
				Action:    runDump,
			},
			{
				Name:      "watch",
				Usage:     "recompile an effect file whenever it changes on disk",
				ArgsUsage: "<input.fx>",
				Flags:     []cli.Flag{defineFlag()},
				Action:    runWatch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func defineFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "define",
		Aliases: []string{"D"},
		Usage:   "spec-constant override as NAME=VALUE (int, uint with 'u' suffix, float, true/false)",
	}
}

func parseDefines(c *cli.Context) (map[string]fxc.SpecConstant, error) {
	values := c.StringSlice("define")
	if len(values) == 0 {
		return nil, nil
	}

	constants := make(map[string]fxc.SpecConstant, len(values))
	for _, def := range values {
		name, value, ok := strings.Cut(def, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid define %q, expected NAME=VALUE", def)
		}

		switch {
		case value == "true" || value == "false":
			constants[name] = fxc.SpecConstant{Type: fx.TypeBool, Bool: value == "true"}
		case strings.HasSuffix(value, "u") || strings.HasSuffix(value, "U"):
			u, err := strconv.ParseUint(value[:len(value)-1], 0, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid define %q: %w", def, err)
			}
			constants[name] = fxc.SpecConstant{Type: fx.TypeUint, Uint: u}
		case strings.ContainsAny(value, ".eE"):
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid define %q: %w", def, err)
			}
			constants[name] = fxc.SpecConstant{Type: fx.TypeFloat, Float: f}
		default:
			i, err := strconv.ParseInt(value, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid define %q: %w", def, err)
			}
			constants[name] = fxc.SpecConstant{Type: fx.TypeInt, Int: i}
		}
	}

	return constants, nil
}

func compileFile(c *cli.Context) (*fxc.Result, string, error) {
	if c.NArg() < 1 {
		return nil, "", fmt.Errorf("no input file specified")
	}
	path := c.Args().First()

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading input: %w", err)
	}

	constants, err := parseDefines(c)
	if err != nil {
		return nil, "", err
	}

	result := fxc.Compile(string(source), fxc.Options{
		SourceName:    path,
		SpecConstants: constants,
	})
	return result, path, nil
}

func runCheck(c *cli.Context) error {
	result, path, err := compileFile(c)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stderr, result.Diagnostics)
	if !result.OK {
		return fmt.Errorf("%s failed to compile", path)
	}

	fmt.Printf("%s: %d technique(s), %d function(s), %d global(s)\n",
		path, len(result.Tree.Techniques), len(result.Tree.Functions), len(result.Tree.Globals))
	return nil
}

func runDump(c *cli.Context) error {
	result, _, err := compileFile(c)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stderr, result.Diagnostics)

	tree := result.Tree
	for _, h := range tree.StructList {
		s := tree.Struct(h)
		fmt.Printf("struct %s (%d field(s))\n", s.UniqueName, len(s.Fields))
	}
	for _, h := range tree.Globals {
		v := tree.Var(h)
		fmt.Printf("%s %s", v.Type.Base, v.UniqueName)
		if v.Semantic != "" {
			fmt.Printf(" : %s", v.Semantic)
		}
		fmt.Println()
	}
	for _, h := range tree.Functions {
		f := tree.Func(h)
		fmt.Printf("%s %s(%d parameter(s))", f.ReturnType.Base, f.UniqueName, len(f.Params))
		if f.ReturnSemantic != "" {
			fmt.Printf(" : %s", f.ReturnSemantic)
		}
		fmt.Println()
	}
	for _, tech := range tree.Techniques {
		fmt.Printf("technique %s (%d pass(es))\n", tech.UniqueName, len(tech.Passes))
	}

	if !result.OK {
		return fmt.Errorf("compilation failed")
	}
	return nil
}

func runWatch(c *cli.Context) error {
	result, path, err := compileFile(c)
	if err != nil {
		return err
	}
	report(result, path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			result, _, err := compileFile(c)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				continue
			}
			report(result, path)

			// Editors that replace the file drop the watch; re-add it.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "Watch error:", err)
		}
	}
}

func report(result *fxc.Result, path string) {
	fmt.Fprint(os.Stderr, result.Diagnostics)
	if result.OK {
		fmt.Fprintf(os.Stderr, "%s: ok\n", path)
	} else {
		fmt.Fprintf(os.Stderr, "%s: failed\n", path)
	}
}
