// Copyright © 2025 The DWSLS authors

package analysis

import "path"

// FilteredSymbols returns all indexed symbols whose name matches the
// glob query: `*` matches any run of characters, `?` exactly one.
// Matching is case-sensitive and anchored at both ends. A malformed
// pattern silently degrades to literal exact-name matching instead of
// failing the query.
func (ix *Index) FilteredSymbols(query string) []Symbol {
	var out []Symbol
	for _, set := range ix.fileSymbols {
		for sym := range set {
			if matchPattern(query, sym.Name) {
				out = append(out, sym)
			}
		}
	}
	return out
}

func matchPattern(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	if err != nil {
		// Malformed pattern: fall back to literal matching.
		return pattern == name
	}
	return ok
}
