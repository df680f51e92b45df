package logkey

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attribute constructors whose first argument is the key
var attrFuncs = map[string]bool{
	"String": true, "Int": true, "Int64": true, "Bool": true,
	"Any": true, "Float64": true, "Duration": true, "Time": true,
}

func TestDomainLogsUseKeyConstants(t *testing.T) {
	var raw []string
	for _, root := range []string{"../../internal", "../../graph"} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				return err
			}
			fset := token.NewFileSet()
			f, err := parser.ParseFile(fset, path, nil, 0)
			if err != nil {
				return err
			}
			ast.Inspect(f, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok || len(call.Args) == 0 {
					return true
				}
				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok || !attrFuncs[sel.Sel.Name] {
					return true
				}
				if pkg, ok := sel.X.(*ast.Ident); !ok || pkg.Name != "slog" {
					return true
				}
				if lit, ok := call.Args[0].(*ast.BasicLit); ok {
					raw = append(raw, fset.Position(lit.Pos()).String()+" "+lit.Value)
				}
				return true
			})
			return nil
		})
		require.NoError(t, err)
	}
	assert.Empty(t, raw)
}
