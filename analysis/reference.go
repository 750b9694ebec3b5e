// Copyright © 2025 The DWSLS authors

package analysis

import (
	"github.com/luthersystems/dwsls/fault"
	"github.com/luthersystems/dwsls/span"
)

// FindReferences resolves the type declaration enclosing pos in the
// given file and returns every symbol whose declaration references it.
// Only class, interface, and enum declarations are resolvable targets;
// when nested declarations both contain pos, the one whose range starts
// latest (the innermost) wins. The declaration itself is appended iff
// includeDeclaration is set. Result ordering is unspecified.
func (ix *Index) FindReferences(fileURI string, pos span.Position, includeDeclaration bool) ([]Symbol, error) {
	if !pos.Valid() {
		return nil, fault.Invalidf("invalid position %s", pos)
	}
	syms, ok := ix.fileSymbols[fileURI]
	if !ok {
		return nil, nil
	}

	var target *Symbol
	for sym := range syms {
		switch sym.Kind {
		case SymClass, SymInterface, SymEnum:
		default:
			continue
		}
		if !sym.Location.Valid() {
			continue
		}
		contains, err := span.Contains(sym.Location, pos)
		if err != nil || !contains {
			continue
		}
		if target == nil || span.Compare(sym.Location.Start, target.Location.Start) > 0 {
			s := sym
			target = &s
		}
	}
	if target == nil {
		return nil, nil
	}

	var out []Symbol
	for ref := range ix.typeRefs[target.Name] {
		out = append(out, ref)
	}
	if includeDeclaration {
		out = append(out, *target)
	}
	return out, nil
}
