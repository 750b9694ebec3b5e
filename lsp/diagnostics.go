// Copyright © 2025 The DWSLS authors

package lsp

import (
	"context"

	"github.com/luthersystems/dwsls/compiler"
	"github.com/luthersystems/dwsls/span"
	"github.com/luthersystems/dwsls/textedit"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	session, err := s.requireSession()
	if err != nil {
		return err
	}
	return session.Open(context.Background(), params.TextDocument.URI, params.TextDocument.Text)
}

// textDocumentDidChange handles the textDocument/didChange notification.
// Incremental content changes become range edits for the patch engine;
// a change without a range is a full-document replacement.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	session, err := s.requireSession()
	if err != nil {
		return err
	}

	edits := make([]textedit.Edit, 0, len(params.ContentChanges))
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			edits = append(edits, textedit.Edit{Text: c.Text})
		case protocol.TextDocumentContentChangeEvent:
			var r *span.Range
			if c.Range != nil {
				converted := fromProtocolRange(*c.Range)
				r = &converted
			}
			edits = append(edits, textedit.Edit{Range: r, Text: c.Text})
		}
	}
	return session.Change(context.Background(), params.TextDocument.URI, edits)
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	session, err := s.requireSession()
	if err != nil {
		return err
	}
	return session.Save(context.Background(), params.TextDocument.URI)
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.captureNotify(ctx)
	session, err := s.requireSession()
	if err != nil {
		return err
	}

	// Clear any published diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	return session.CloseDocument(context.Background(), params.TextDocument.URI)
}

// workspaceDidChangeWatchedFiles handles externally modified files
// reported by the client. These bypass shadows entirely.
func (s *Server) workspaceDidChangeWatchedFiles(ctx *glsp.Context, params *protocol.DidChangeWatchedFilesParams) error {
	s.captureNotify(ctx)
	session, err := s.requireSession()
	if err != nil {
		return err
	}

	events := make([]WatchedEvent, 0, len(params.Changes))
	for _, change := range params.Changes {
		ev := WatchedEvent{URI: change.URI}
		switch change.Type {
		case protocol.FileChangeTypeCreated:
			ev.Change = WatchedCreated
		case protocol.FileChangeTypeDeleted:
			ev.Change = WatchedDeleted
		default:
			ev.Change = WatchedChanged
		}
		events = append(events, ev)
	}
	return session.ChangeWatchedFiles(context.Background(), events)
}

// publishDiagnostics is the session's publication sink: it converts one
// file's compile diagnostics and notifies the client.
func (s *Server) publishDiagnostics(uri string, diags []compiler.Diagnostic) {
	converted := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		sev := mapSeverity(d.Severity)
		converted = append(converted, protocol.Diagnostic{
			Range:    compilerSpanToRange(d.Span),
			Severity: &sev,
			Source:   strPtr(serverName),
			Message:  d.Message,
		})
	}
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: converted,
	})
}

// mapSeverity converts a compiler severity to an LSP severity.
func mapSeverity(sev compiler.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case compiler.SeverityError:
		return protocol.DiagnosticSeverityError
	case compiler.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case compiler.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	case compiler.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityWarning
	}
}
