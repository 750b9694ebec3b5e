// Copyright © 2025 The DWSLS authors

package analysis

import (
	"strings"

	"github.com/luthersystems/dwsls/compiler"
	"github.com/luthersystems/dwsls/span"
)

// Index maps files to the symbols they declare and type names to the
// symbols whose declarations reference them. Instances are read-only
// after Build; concurrent readers need no locking as long as the owner
// swaps whole indexes instead of mutating one.
type Index struct {
	fileSymbols map[string]SymbolSet
	typeRefs    map[string]SymbolSet
}

// NewIndex returns an empty index, the state before the first clean
// compile.
func NewIndex() *Index {
	return &Index{
		fileSymbols: make(map[string]SymbolSet),
		typeRefs:    make(map[string]SymbolSet),
	}
}

// Build constructs a fresh index from one compile pass. Declarations
// carry 1-based spans; they are converted here, with unusable spans
// mapped to the undefined range rather than dropped.
func Build(res *compiler.Result) *Index {
	ix := NewIndex()
	if res == nil {
		return ix
	}
	for _, f := range res.Files {
		uri := pathToURI(f.Path)
		for _, v := range f.Vars {
			ix.addVar(uri, "", v, SymVariable)
		}
		for _, t := range f.Types {
			ix.addType(uri, "", t)
		}
	}
	return ix
}

// FileSymbols returns the file→symbols map. Callers must not mutate it.
func (ix *Index) FileSymbols() map[string]SymbolSet {
	return ix.fileSymbols
}

// TypeReferences returns the typeName→referencing-symbols map. Callers
// must not mutate it.
func (ix *Index) TypeReferences() map[string]SymbolSet {
	return ix.typeRefs
}

func (ix *Index) addType(uri, container string, t compiler.TypeDecl) {
	sym := Symbol{
		Name:      t.Name,
		Kind:      typeSymbolKind(t.Kind),
		Container: container,
		File:      uri,
		Location:  toRange(t.Span),
	}
	ix.addSymbol(sym)

	for _, iface := range t.Interfaces {
		if iface == "" || iface == compiler.ImplicitInterface {
			continue
		}
		ix.addRef(iface, sym)
	}
	if t.Super != "" && t.Super != compiler.ImplicitRoot {
		ix.addRef(t.Super, sym)
	}

	for _, f := range t.Fields {
		ix.addVar(uri, t.Name, f, SymField)
	}
	for _, m := range t.Methods {
		msym := Symbol{
			Name:      m.Name,
			Kind:      SymMethod,
			Container: t.Name,
			File:      uri,
			Location:  toRange(m.Span),
		}
		ix.addSymbol(msym)
		if m.ReturnType != "" {
			ix.addRef(m.ReturnType, msym)
		}
		for _, p := range m.Params {
			ix.addVar(uri, m.Name, p, SymVariable)
		}
		for _, l := range m.Locals {
			ix.addVar(uri, m.Name, l, SymVariable)
		}
	}
	for _, nested := range t.Nested {
		ix.addType(uri, t.Name, nested)
	}
}

func (ix *Index) addVar(uri, container string, v compiler.VarDecl, kind SymbolKind) {
	loc := span.Undefined
	if !v.Implicit {
		loc = toRange(v.Span)
	}
	sym := Symbol{
		Name:      v.Name,
		Kind:      kind,
		Container: container,
		File:      uri,
		Location:  loc,
	}
	ix.addSymbol(sym)
	if v.Type != "" {
		ix.addRef(v.Type, sym)
	}
}

func (ix *Index) addSymbol(sym Symbol) {
	set, ok := ix.fileSymbols[sym.File]
	if !ok {
		set = make(SymbolSet)
		ix.fileSymbols[sym.File] = set
	}
	set.Add(sym)
}

func (ix *Index) addRef(typeName string, sym Symbol) {
	set, ok := ix.typeRefs[typeName]
	if !ok {
		set = make(SymbolSet)
		ix.typeRefs[typeName] = set
	}
	set.Add(sym)
}

func typeSymbolKind(k compiler.TypeKind) SymbolKind {
	switch k {
	case compiler.KindInterface:
		return SymInterface
	case compiler.KindEnum:
		return SymEnum
	default:
		return SymClass
	}
}

// toRange converts a 1-based compiler span to a 0-based range. Any span
// whose converted form is invalid (including the zero span compilers
// report for synthesized nodes) becomes the undefined range.
func toRange(sp compiler.Span) span.Range {
	r := span.Range{
		Start: span.Position{Line: sp.Line - 1, Character: sp.Col - 1},
		End:   span.Position{Line: sp.EndLine - 1, Character: sp.EndCol - 1},
	}
	if !r.Valid() {
		return span.Undefined
	}
	return r
}

// pathToURI converts a filesystem path to a file:// URI. Paths that
// already look like URIs pass through unchanged.
func pathToURI(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
