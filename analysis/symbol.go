// Copyright © 2025 The DWSLS authors

// Package analysis builds the symbol index and type-reference graph
// from each compile pass and answers position and pattern queries over
// them. An Index is immutable once built; the session replaces the
// whole index after a clean compile instead of mutating it.
package analysis

import (
	"github.com/luthersystems/dwsls/span"
)

// SymbolKind classifies a symbol declaration.
type SymbolKind int

const (
	SymClass SymbolKind = iota
	SymInterface
	SymEnum
	SymField
	SymMethod
	SymVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymClass:
		return "class"
	case SymInterface:
		return "interface"
	case SymEnum:
		return "enum"
	case SymField:
		return "field"
	case SymMethod:
		return "method"
	case SymVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Symbol is a declared name anchored to a document. It is a comparable
// value object: two symbols with the same name, kind, container, and
// location are the same symbol and collapse under set semantics.
// Container is the declaring type or method name; empty for top-level
// declarations. Location is the undefined range for symbols without a
// meaningful source span.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Container string
	File      string // document URI
	Location  span.Range
}

// SymbolSet is a set of symbols keyed by value.
type SymbolSet map[Symbol]struct{}

// Add inserts sym; duplicates collapse.
func (s SymbolSet) Add(sym Symbol) {
	s[sym] = struct{}{}
}

// Contains reports set membership.
func (s SymbolSet) Contains(sym Symbol) bool {
	_, ok := s[sym]
	return ok
}

// Symbols returns the members in unspecified order.
func (s SymbolSet) Symbols() []Symbol {
	out := make([]Symbol, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	return out
}
