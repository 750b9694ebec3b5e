// Copyright © 2025 The DWSLS authors

package textedit

import (
	"os"
	"sort"
	"strings"

	"github.com/luthersystems/dwsls/fault"
	"github.com/luthersystems/dwsls/span"
)

// Edit is one text change. A nil Range denotes full-document
// replacement and is only legal as the sole edit of a batch.
type Edit struct {
	Range *span.Range
	Text  string
}

// ApplyChanges applies a batch of edits to the document's shadow. The
// whole batch is validated first; on any rejection nothing is applied.
// Ranged edits are sorted by start position and spliced in a single
// pass, so the result equals applying each edit individually to the
// unmodified text starting from the latest one.
func (d *Document) ApplyChanges(edits []Edit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(edits) == 0 {
		return nil
	}

	// A rangeless edit replaces the whole document verbatim.
	for _, e := range edits {
		if e.Range == nil {
			if len(edits) != 1 {
				return fault.Invalidf("a rangeless change must be the only change")
			}
			if err := writeFileAtomic(d.shadow, []byte(e.Text)); err != nil {
				return fault.IOf(err, "replace shadow for %s", d.uri)
			}
			d.dirty = true
			return nil
		}
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	for _, e := range sorted {
		if !e.Range.Valid() {
			return fault.Invalidf("invalid change range %s", e.Range)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return span.Compare(sorted[i].Range.Start, sorted[j].Range.Start) < 0
	})
	for i := 0; i < len(sorted)-1; i++ {
		if span.Compare(sorted[i].Range.End, sorted[i+1].Range.Start) > 0 {
			return fault.Invalidf("overlapping changes %s and %s",
				sorted[i].Range, sorted[i+1].Range)
		}
	}

	data, err := os.ReadFile(d.shadow)
	if err != nil {
		return fault.IOf(err, "read shadow for %s", d.uri)
	}
	patched := splice(string(data), sorted)
	if err := writeFileAtomic(d.shadow, []byte(patched)); err != nil {
		return fault.IOf(err, "write shadow for %s", d.uri)
	}
	d.dirty = true
	return nil
}

// splice applies sorted, non-overlapping, valid edits to content in one
// linear pass over its lines. Untouched spans are copied verbatim; each
// edit's replacement is written between its start and end offsets, and
// line spans fully covered by a multi-line edit are skipped. Positions
// beyond the end of a line or of the document clamp to the end.
func splice(content string, edits []Edit) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	ei := 0
	for li := 0; li < len(lines); li++ {
		line := lines[li]
		col := 0
		for ei < len(edits) && edits[ei].Range.Start.Line == li {
			e := edits[ei]
			start := clampCol(e.Range.Start.Character, len(line))
			if start < col {
				start = col
			}
			b.WriteString(line[col:start])
			b.WriteString(e.Text)
			switch end := e.Range.End; {
			case end.Line >= len(lines):
				// Range runs past EOF: everything after start is gone.
				li = len(lines) - 1
				line = lines[li]
				col = len(line)
			case end.Line > li:
				li = end.Line
				line = lines[li]
				col = clampCol(end.Character, len(line))
			default:
				col = clampCol(end.Character, len(line))
			}
			ei++
		}
		b.WriteString(line[col:])
		if li < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	// Edits anchored past the last line append at the end.
	for ; ei < len(edits); ei++ {
		b.WriteString(edits[ei].Text)
	}
	return b.String()
}

func clampCol(col, lineLen int) int {
	if col > lineLen {
		return lineLen
	}
	return col
}
