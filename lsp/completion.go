// Copyright © 2025 The DWSLS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request.
// Items are derived directly from the file's current symbol set with no
// ranking; symbols with undefined ranges (implicit variables) are
// included since completion does not navigate to them.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	set := session.Index().FileSymbols()[params.TextDocument.URI]
	if len(set) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for sym := range set {
		kind := mapCompletionItemKind(sym.Kind)
		item := protocol.CompletionItem{
			Label: sym.Name,
			Kind:  &kind,
		}
		if sym.Container != "" {
			item.Detail = strPtr(sym.Container)
		}
		items = append(items, item)
	}
	return items, nil
}
