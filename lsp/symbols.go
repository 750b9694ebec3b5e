// Copyright © 2025 The DWSLS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request from the current index snapshot. Symbols with undefined
// ranges remain visible here (with a collapsed range); they are only
// excluded from navigation results.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	set := session.Index().FileSymbols()[params.TextDocument.URI]
	if len(set) == 0 {
		return nil, nil
	}

	var symbols []protocol.DocumentSymbol
	for sym := range set {
		r := toProtocolRange(sym.Location)
		ds := protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           mapSymbolKind(sym.Kind),
			Range:          r,
			SelectionRange: r,
		}
		if sym.Container != "" {
			ds.Detail = strPtr(sym.Container)
		}
		symbols = append(symbols, ds)
	}
	return symbols, nil
}
