// Copyright © 2025 The DWSLS authors

package analysis

import (
	"errors"
	"testing"

	"github.com/luthersystems/dwsls/compiler"
	"github.com/luthersystems/dwsls/fault"
	"github.com/luthersystems/dwsls/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainURI = "file:///ws/main.dws"

// sp builds a 1-based compiler span.
func sp(line, col, endLine, endCol int) compiler.Span {
	return compiler.Span{Line: line, Col: col, EndLine: endLine, EndCol: endCol}
}

// fixtureResult models a unit with a nested class pair, an interface,
// fields, methods, and an implicit variable.
func fixtureResult() *compiler.Result {
	return &compiler.Result{
		Files: []compiler.FileDecls{{
			Path: "/ws/main.dws",
			Vars: []compiler.VarDecl{
				{Name: "gCount", Type: "Integer", Span: sp(1, 5, 1, 11)},
				{Name: "ghost", Type: "Variant", Implicit: true},
			},
			Types: []compiler.TypeDecl{
				{
					Name: "IRunnable",
					Kind: compiler.KindInterface,
					Span: sp(3, 1, 3, 30),
				},
				{
					Name:       "TOuter",
					Kind:       compiler.KindClass,
					Span:       sp(2, 1, 11, 4),
					Super:      compiler.ImplicitRoot,
					Interfaces: []string{compiler.ImplicitInterface, "IRunnable"},
					Fields: []compiler.VarDecl{
						{Name: "fooBar", Type: "Integer", Span: sp(7, 3, 7, 18)},
						{Name: "fooBaz", Type: "TInner", Span: sp(8, 3, 8, 18)},
					},
					Methods: []compiler.MethodDecl{{
						Name:       "Run",
						ReturnType: "TInner",
						Span:       sp(9, 3, 9, 25),
						Params:     []compiler.VarDecl{{Name: "arg", Type: "String", Span: sp(9, 17, 9, 20)}},
						Locals:     []compiler.VarDecl{{Name: "other", Type: "Boolean", Span: sp(10, 5, 10, 10)}},
					}},
					Nested: []compiler.TypeDecl{{
						Name:  "TInner",
						Kind:  compiler.KindClass,
						Span:  sp(4, 3, 6, 6),
						Super: "TOuter",
					}},
				},
			},
		}},
	}
}

func findSymbol(t *testing.T, set SymbolSet, name string) Symbol {
	t.Helper()
	for sym := range set {
		if sym.Name == name {
			return sym
		}
	}
	t.Fatalf("symbol %q not found", name)
	return Symbol{}
}

func TestBuildFileSymbols(t *testing.T) {
	ix := Build(fixtureResult())
	files := ix.FileSymbols()
	require.Contains(t, files, mainURI)
	set := files[mainURI]

	t.Run("type symbols with containers", func(t *testing.T) {
		outer := findSymbol(t, set, "TOuter")
		assert.Equal(t, SymClass, outer.Kind)
		assert.Empty(t, outer.Container)
		assert.Equal(t, span.Position{Line: 1, Character: 0}, outer.Location.Start)

		inner := findSymbol(t, set, "TInner")
		assert.Equal(t, "TOuter", inner.Container)

		iface := findSymbol(t, set, "IRunnable")
		assert.Equal(t, SymInterface, iface.Kind)
	})
	t.Run("members", func(t *testing.T) {
		fooBar := findSymbol(t, set, "fooBar")
		assert.Equal(t, SymField, fooBar.Kind)
		assert.Equal(t, "TOuter", fooBar.Container)

		run := findSymbol(t, set, "Run")
		assert.Equal(t, SymMethod, run.Kind)
		assert.Equal(t, "TOuter", run.Container)

		arg := findSymbol(t, set, "arg")
		assert.Equal(t, SymVariable, arg.Kind)
		assert.Equal(t, "Run", arg.Container)
	})
	t.Run("script-level variable", func(t *testing.T) {
		g := findSymbol(t, set, "gCount")
		assert.Equal(t, SymVariable, g.Kind)
		assert.Empty(t, g.Container)
	})
	t.Run("implicit variable gets undefined range", func(t *testing.T) {
		ghost := findSymbol(t, set, "ghost")
		assert.True(t, ghost.Location.IsUndefined())
	})
	t.Run("duplicates collapse", func(t *testing.T) {
		res := fixtureResult()
		res.Files[0].Vars = append(res.Files[0].Vars, res.Files[0].Vars[0])
		dup := Build(res)
		var count int
		for sym := range dup.FileSymbols()[mainURI] {
			if sym.Name == "gCount" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestBuildTypeReferences(t *testing.T) {
	ix := Build(fixtureResult())
	refs := ix.TypeReferences()

	t.Run("interface edge recorded", func(t *testing.T) {
		set := refs["IRunnable"]
		require.NotNil(t, set)
		assert.Equal(t, "TOuter", set.Symbols()[0].Name)
	})
	t.Run("implicit bases excluded", func(t *testing.T) {
		assert.NotContains(t, refs, compiler.ImplicitInterface)
		assert.NotContains(t, refs, compiler.ImplicitRoot)
	})
	t.Run("field, return, and supertype edges", func(t *testing.T) {
		inner := refs["TInner"]
		require.NotNil(t, inner)
		names := map[string]bool{}
		for sym := range inner {
			names[sym.Name] = true
		}
		// TInner is referenced by the fooBaz field type and Run's return.
		assert.True(t, names["fooBaz"])
		assert.True(t, names["Run"])

		outer := refs["TOuter"]
		require.NotNil(t, outer)
		assert.True(t, outer.Contains(findSymbol(t, ix.FileSymbols()[mainURI], "TInner")))
	})
	t.Run("variable type edges", func(t *testing.T) {
		assert.Contains(t, refs, "Integer")
		assert.Contains(t, refs, "String")
		assert.Contains(t, refs, "Boolean")
		assert.Contains(t, refs, "Variant")
	})
}

func TestToRange(t *testing.T) {
	t.Run("converts 1-based to 0-based", func(t *testing.T) {
		r := toRange(sp(1, 1, 2, 5))
		assert.Equal(t, span.Range{
			Start: span.Position{Line: 0, Character: 0},
			End:   span.Position{Line: 1, Character: 4},
		}, r)
	})
	t.Run("zero span becomes undefined", func(t *testing.T) {
		assert.True(t, toRange(compiler.Span{}).IsUndefined())
	})
	t.Run("reversed span becomes undefined", func(t *testing.T) {
		assert.True(t, toRange(sp(5, 1, 2, 1)).IsUndefined())
	})
}

func TestFilteredSymbols(t *testing.T) {
	ix := Build(fixtureResult())

	names := func(q string) map[string]bool {
		out := map[string]bool{}
		for _, sym := range ix.FilteredSymbols(q) {
			out[sym.Name] = true
		}
		return out
	}

	t.Run("star", func(t *testing.T) {
		got := names("foo*")
		assert.Equal(t, map[string]bool{"fooBar": true, "fooBaz": true}, got)
	})
	t.Run("question mark", func(t *testing.T) {
		got := names("foo?ar")
		assert.Equal(t, map[string]bool{"fooBar": true}, got)
	})
	t.Run("case sensitive", func(t *testing.T) {
		assert.Empty(t, names("FOO*"))
	})
	t.Run("anchored full match", func(t *testing.T) {
		assert.Empty(t, names("ooBa"))
	})
	t.Run("malformed pattern degrades to literal", func(t *testing.T) {
		assert.Empty(t, names("fooBar["))
		res := fixtureResult()
		res.Files[0].Vars = append(res.Files[0].Vars, compiler.VarDecl{
			Name: "odd[", Type: "Integer", Span: sp(12, 1, 12, 4),
		})
		weird := Build(res)
		assert.Len(t, weird.FilteredSymbols("odd["), 1)
	})
}

func TestFindReferences(t *testing.T) {
	ix := Build(fixtureResult())

	t.Run("nested tie-break picks innermost", func(t *testing.T) {
		// Position inside both TOuter (lines 1-10) and TInner (lines 3-5)
		// in zero-based terms.
		refs, err := ix.FindReferences(mainURI, span.Position{Line: 4, Character: 0}, false)
		require.NoError(t, err)
		require.NotEmpty(t, refs)
		for _, sym := range refs {
			assert.Contains(t, []string{"fooBaz", "Run"}, sym.Name,
				"expected references to TInner, not TOuter")
		}
	})
	t.Run("include declaration", func(t *testing.T) {
		refs, err := ix.FindReferences(mainURI, span.Position{Line: 4, Character: 0}, true)
		require.NoError(t, err)
		var hasDecl bool
		for _, sym := range refs {
			if sym.Name == "TInner" && sym.Kind == SymClass {
				hasDecl = true
			}
		}
		assert.True(t, hasDecl)
	})
	t.Run("outer selected outside nested", func(t *testing.T) {
		refs, err := ix.FindReferences(mainURI, span.Position{Line: 9, Character: 0}, true)
		require.NoError(t, err)
		var names []string
		for _, sym := range refs {
			names = append(names, sym.Name)
		}
		assert.Contains(t, names, "TOuter") // the declaration itself
		assert.Contains(t, names, "TInner") // TInner extends TOuter
	})
	t.Run("unknown file", func(t *testing.T) {
		refs, err := ix.FindReferences("file:///nope.dws", span.Position{}, true)
		require.NoError(t, err)
		assert.Empty(t, refs)
	})
	t.Run("no enclosing type", func(t *testing.T) {
		refs, err := ix.FindReferences(mainURI, span.Position{Line: 90, Character: 0}, true)
		require.NoError(t, err)
		assert.Empty(t, refs)
	})
	t.Run("invalid position", func(t *testing.T) {
		_, err := ix.FindReferences(mainURI, span.Position{Line: -2, Character: 0}, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, fault.ErrInvalidArgument))
	})
}
