// Copyright © 2025 The DWSLS authors

// Package span provides zero-based (line, column) positions and ranges
// and the comparison, validity, and containment predicates the rest of
// the server is built on. All operations are pure.
package span

import (
	"fmt"

	"github.com/luthersystems/dwsls/fault"
)

// Position is a zero-based line/column pair.
type Position struct {
	Line      int
	Character int
}

// Valid reports whether both coordinates are non-negative.
func (p Position) Valid() bool {
	return p.Line >= 0 && p.Character >= 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Compare orders positions lexicographically by line, then column.
// It returns -1, 0, or 1.
func Compare(a, b Position) int {
	switch {
	case a.Line < b.Line:
		return -1
	case a.Line > b.Line:
		return 1
	case a.Character < b.Character:
		return -1
	case a.Character > b.Character:
		return 1
	}
	return 0
}

// Range is a half-open-looking but inclusively-compared pair of
// positions. Start must not follow End for the range to be valid.
type Range struct {
	Start Position
	End   Position
}

// Undefined is the sentinel range for symbols without a meaningful
// source span (implicitly declared variables). It is never valid and is
// excluded from all position queries.
var Undefined = Range{
	Start: Position{Line: -1, Character: -1},
	End:   Position{Line: -1, Character: -1},
}

// Valid reports whether both endpoints are valid and Start <= End.
func (r Range) Valid() bool {
	return r.Start.Valid() && r.End.Valid() && Compare(r.Start, r.End) <= 0
}

// IsUndefined reports whether r is the undefined-range sentinel.
func (r Range) IsUndefined() bool {
	return r == Undefined
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Contains reports whether p falls within r, inclusive on both ends.
// Both r and p must be valid; otherwise an InvalidArgument error naming
// the offending value is returned.
func Contains(r Range, p Position) (bool, error) {
	if !r.Valid() {
		return false, fault.Invalidf("invalid range %s", r)
	}
	if !p.Valid() {
		return false, fault.Invalidf("invalid position %s", p)
	}
	return Compare(r.Start, p) <= 0 && Compare(p, r.End) <= 0, nil
}
