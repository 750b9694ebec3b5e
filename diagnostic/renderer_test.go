// Copyright © 2025 The DWSLS authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luthersystems/dwsls/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"unit.dws": "var count := 'ten';",
	})

	d := compiler.Diagnostic{
		Path:     "unit.dws",
		Span:     compiler.Span{Line: 1, Col: 14, EndLine: 1, EndCol: 19},
		Severity: compiler.SeverityError,
		Message:  "incompatible types: expected Integer",
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	got := buf.String()

	assert.Contains(t, got, "error: incompatible types: expected Integer")
	assert.Contains(t, got, "--> unit.dws:1:14")
	assert.Contains(t, got, "var count := 'ten';")
	assert.Contains(t, got, "^^^^^")
}

func TestRenderUnreadableSource(t *testing.T) {
	r := testRenderer(nil)

	d := compiler.Diagnostic{
		Path:     "missing.dws",
		Span:     compiler.Span{Line: 3, Col: 1},
		Severity: compiler.SeverityWarning,
		Message:  "unused variable",
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	got := buf.String()

	assert.Contains(t, got, "warning: unused variable")
	assert.Contains(t, got, "--> missing.dws:3:1")
	assert.NotContains(t, got, "^")
}

func TestRenderMultiLineSpan(t *testing.T) {
	r := testRenderer(map[string]string{
		"unit.dws": "begin\n  while True do\n  begin\n  end;\nend.",
	})

	d := compiler.Diagnostic{
		Path:     "unit.dws",
		Span:     compiler.Span{Line: 2, Col: 3, EndLine: 4, EndCol: 7},
		Severity: compiler.SeverityHint,
		Message:  "infinite loop",
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	got := buf.String()

	// Multi-line spans underline to the end of the first line.
	assert.Contains(t, got, "  while True do")
	assert.Contains(t, got, "^^^^^^^^^^^^^")
	assert.Contains(t, got, "hint: infinite loop")
}

func TestRenderWrapsLongMessages(t *testing.T) {
	r := testRenderer(nil)
	r.Width = 40

	long := strings.Repeat("overload resolution failed ", 4)
	d := compiler.Diagnostic{
		Path:     "unit.dws",
		Severity: compiler.SeverityError,
		Message:  strings.TrimSpace(long),
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))

	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len(line), 40, "line %q", line)
	}
}

func TestRenderAllSummary(t *testing.T) {
	r := testRenderer(nil)

	diags := []compiler.Diagnostic{
		{Path: "a.dws", Severity: compiler.SeverityError, Message: "boom"},
		{Path: "a.dws", Severity: compiler.SeverityError, Message: "boom again"},
		{Path: "b.dws", Severity: compiler.SeverityWarning, Message: "meh"},
	}

	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, diags))
	assert.Contains(t, buf.String(), "2 errors, 1 warning")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "1 error", Summary([]compiler.Diagnostic{
		{Severity: compiler.SeverityError},
	}))
	assert.Equal(t, "1 warning, 2 notes", Summary([]compiler.Diagnostic{
		{Severity: compiler.SeverityWarning},
		{Severity: compiler.SeverityHint},
		{Severity: compiler.SeverityInfo},
	}))
	assert.True(t, HasErrors([]compiler.Diagnostic{{Severity: compiler.SeverityError}}))
	assert.False(t, HasErrors([]compiler.Diagnostic{{Severity: compiler.SeverityWarning}}))
}
