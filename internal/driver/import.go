package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/checker"
	"github.com/pallene-lang/pallenec/internal/parser"
	"github.com/pallene-lang/pallenec/internal/types"
)

// searchPathImporter resolves "import name" by looking for name.pln in
// each of a list of directories, in order. It recursively parses and
// checks the resolved file with the same search paths, so a chain of
// imports composes, and tracks the names currently being resolved to
// reject cycles the same way a mutually-recursive typealias chain is
// rejected.
type searchPathImporter struct {
	paths    []string
	opts     Options
	resolving map[string]bool
	cache    map[string]*types.Type
}

func newSearchPathImporter(paths []string, opts Options) *searchPathImporter {
	return &searchPathImporter{
		paths:     paths,
		opts:      opts,
		resolving: make(map[string]bool),
		cache:     make(map[string]*types.Type),
	}
}

func (im *searchPathImporter) Resolve(name string) (*types.Type, error) {
	if t, ok := im.cache[name]; ok {
		return t, nil
	}
	if im.resolving[name] {
		return nil, fmt.Errorf("import cycle detected involving %q", name)
	}

	path, err := im.find(name)
	if err != nil {
		return nil, err
	}

	im.resolving[name] = true
	defer delete(im.resolving, name)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p := parser.New(path, string(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("import %q: %s", name, errs[0].Compact())
	}

	nested := newSearchPathImporter(im.paths, im.opts)
	nested.resolving = im.resolving
	if errs := checker.Check(prog, nested); len(errs) > 0 {
		return nil, fmt.Errorf("import %q: %s", name, errs[0].Compact())
	}

	t := exportTableType(prog)
	im.cache[name] = t
	return t, nil
}

func (im *searchPathImporter) find(name string) (string, error) {
	for _, dir := range im.paths {
		candidate := filepath.Join(dir, name+".pln")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("module %q not found on search path", name)
}

// exportTableType builds the Table type an importer binds to "import
// name": one field per exported toplevel declaration. The checker does
// not expose resolved toplevel signatures outside the package, so fields
// are typed ANY here — sound but imprecise.
func exportTableType(prog *ast.Program) *types.Type {
	var order []string
	fields := make(map[string]*types.Type)
	for _, tl := range prog.Toplevels {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			if d.Export {
				order = append(order, d.Name)
				fields[d.Name] = types.ANY
			}
		case *ast.TopVarDecl:
			if d.Export {
				order = append(order, d.Name)
				fields[d.Name] = types.ANY
			}
		}
	}
	return types.NewTableType(order, fields)
}
