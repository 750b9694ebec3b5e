// Copyright © 2025 The DWSLS authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/dwsls/compiler"
	"github.com/muesli/reflow/wordwrap"
)

// Renderer formats compiler diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// Width wraps long messages at this column. 0 disables wrapping.
	Width int

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d compiler.Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	r.writeSnippet(ew, d, p)

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines,
// followed by a severity summary.
func (r *Renderer) RenderAll(w io.Writer, diags []compiler.Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	if s := Summary(diags); s != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", s); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// writeHeader emits "error: message", wrapping long messages so
// continuation lines indent under the message text.
func (r *Renderer) writeHeader(ew *errWriter, d compiler.Diagnostic, p palette) {
	sev := d.Severity.String()
	msg := d.Message
	if r.Width > 0 {
		msg = wordwrap.String(msg, r.Width-len(sev)-2)
		indent := strings.Repeat(" ", len(sev)+2)
		msg = strings.ReplaceAll(msg, "\n", "\n"+indent)
	}
	ew.printf("%s%s%s:%s %s%s%s\n",
		p.severityColor(d.Severity), sev, p.reset,
		p.reset,
		p.bold, msg, p.reset)
}

// writeSnippet emits the location line, the first source line of the
// span, and an underline from the start column. Multi-line spans are
// underlined to the end of the first line.
func (r *Renderer) writeSnippet(ew *errWriter, d compiler.Diagnostic, p palette) {
	sp := d.Span
	loc := d.Path
	if sp.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.Path, sp.Line)
		if sp.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", d.Path, sp.Line, sp.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source := r.readSourceLine(d.Path, sp.Line)
	if source == "" {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := fmt.Sprintf("%d", sp.Line)
	pad := strings.Repeat(" ", len(lineStr))

	displaySource := strings.ReplaceAll(source, "\t", "    ")
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, displaySource)

	col := sp.Col
	if col <= 0 {
		col = 1
	}
	endCol := sp.EndCol
	if sp.EndLine > sp.Line || endCol <= 0 {
		// Underline runs to the end of the displayed line.
		endCol = len([]rune(source)) + 1
	}
	if endCol <= col {
		endCol = col + 1
	}

	prefix := ""
	if col > 1 && col-1 <= len(source) {
		prefix = source[:col-1]
	}
	underPad := strings.Repeat(" ", displayWidth(prefix))
	// Compiler end columns are exclusive.
	underline := strings.Repeat("^", endCol-col)

	ew.printf(" %s%s |%s  %s%s%s%s\n", p.boldBlue, pad, p.reset,
		underPad, p.severityColor(d.Severity), underline, p.reset)
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		reader = os.ReadFile
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text()
		}
	}
	return ""
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
