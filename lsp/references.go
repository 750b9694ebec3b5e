// Copyright © 2025 The DWSLS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences handles the textDocument/references request.
// The position must fall inside a class, interface, or enum declaration
// recorded for the file; the innermost enclosing declaration wins when
// they nest. Only references with valid source ranges are returned.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	refs, err := session.Index().FindReferences(
		params.TextDocument.URI,
		fromProtocolPosition(params.Position),
		params.Context.IncludeDeclaration,
	)
	if err != nil {
		return nil, err
	}

	var locs []protocol.Location
	for _, sym := range refs {
		if !sym.Location.Valid() {
			continue
		}
		locs = append(locs, protocol.Location{
			URI:   sym.File,
			Range: toProtocolRange(sym.Location),
		})
	}
	return locs, nil
}
