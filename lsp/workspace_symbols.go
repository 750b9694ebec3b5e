// Copyright © 2025 The DWSLS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceSymbol handles the workspace/symbol request. The query is a
// glob pattern (`*` and `?`), case-sensitive, matched against the full
// symbol name. Symbols without a valid source range are filtered out —
// the result carries locations.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	var results []protocol.SymbolInformation
	for _, sym := range session.Index().FilteredSymbols(params.Query) {
		if !sym.Location.Valid() {
			continue
		}
		si := protocol.SymbolInformation{
			Name: sym.Name,
			Kind: mapSymbolKind(sym.Kind),
			Location: protocol.Location{
				URI:   sym.File,
				Range: toProtocolRange(sym.Location),
			},
		}
		if sym.Container != "" {
			si.ContainerName = strPtr(sym.Container)
		}
		results = append(results, si)
	}
	return results, nil
}
