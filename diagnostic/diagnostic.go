// Copyright © 2025 The DWSLS authors

// Package diagnostic renders compiler diagnostics as annotated source
// snippets for CLI output. It is independent of the lsp/ package so the
// check command can use it without pulling in protocol types.
package diagnostic

import (
	"fmt"

	"github.com/luthersystems/dwsls/compiler"
)

// Summary returns a one-line tally of diagnostics by severity, e.g.
// "2 errors, 1 warning". It returns "" when there are none.
func Summary(diags []compiler.Diagnostic) string {
	var errors, warnings, other int
	for _, d := range diags {
		switch d.Severity {
		case compiler.SeverityError:
			errors++
		case compiler.SeverityWarning:
			warnings++
		default:
			other++
		}
	}
	var parts []string
	if errors > 0 {
		parts = append(parts, plural(errors, "error"))
	}
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	if other > 0 {
		parts = append(parts, plural(other, "note"))
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []compiler.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == compiler.SeverityError {
			return true
		}
	}
	return false
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
