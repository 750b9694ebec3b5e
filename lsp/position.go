// Copyright © 2025 The DWSLS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/dwsls/analysis"
	"github.com/luthersystems/dwsls/compiler"
	"github.com/luthersystems/dwsls/span"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toProtocolRange converts a zero-based range to an LSP range, clamping
// negative coordinates (the undefined sentinel) to zero.
func toProtocolRange(r span.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(r.Start.Line), Character: safeUint(r.Start.Character)},
		End:   protocol.Position{Line: safeUint(r.End.Line), Character: safeUint(r.End.Character)},
	}
}

// fromProtocolPosition converts an LSP position to a span position.
func fromProtocolPosition(p protocol.Position) span.Position {
	return span.Position{Line: int(p.Line), Character: int(p.Character)}
}

// fromProtocolRange converts an LSP range to a span range.
func fromProtocolRange(r protocol.Range) span.Range {
	return span.Range{
		Start: fromProtocolPosition(r.Start),
		End:   fromProtocolPosition(r.End),
	}
}

// compilerSpanToRange converts a 1-based compiler span to an LSP range.
// Spans without usable positions collapse to a zero range.
func compilerSpanToRange(sp compiler.Span) protocol.Range {
	line := sp.Line
	col := sp.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	start := protocol.Position{Line: safeUint(line), Character: safeUint(col)}
	end := start
	if sp.EndLine > 0 && sp.EndCol > 0 {
		end = protocol.Position{
			Line:      safeUint(sp.EndLine - 1),
			Character: safeUint(sp.EndCol - 1),
		}
	}
	return protocol.Range{Start: start, End: end}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// mapSymbolKind converts an analysis.SymbolKind to an LSP SymbolKind.
func mapSymbolKind(kind analysis.SymbolKind) protocol.SymbolKind {
	switch kind {
	case analysis.SymClass:
		return protocol.SymbolKindClass
	case analysis.SymInterface:
		return protocol.SymbolKindInterface
	case analysis.SymEnum:
		return protocol.SymbolKindEnum
	case analysis.SymField:
		return protocol.SymbolKindField
	case analysis.SymMethod:
		return protocol.SymbolKindMethod
	case analysis.SymVariable:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindVariable
	}
}

// mapCompletionItemKind converts an analysis.SymbolKind to an LSP
// CompletionItemKind.
func mapCompletionItemKind(kind analysis.SymbolKind) protocol.CompletionItemKind {
	switch kind {
	case analysis.SymClass:
		return protocol.CompletionItemKindClass
	case analysis.SymInterface:
		return protocol.CompletionItemKindInterface
	case analysis.SymEnum:
		return protocol.CompletionItemKindEnum
	case analysis.SymField:
		return protocol.CompletionItemKindField
	case analysis.SymMethod:
		return protocol.CompletionItemKindMethod
	case analysis.SymVariable:
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindText
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
