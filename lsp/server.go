// Copyright © 2025 The DWSLS authors

// Package lsp implements the dwsls language server. It keeps shadow
// working copies of open documents in sync with the client, runs the
// embedder's compiler over the workspace after every lifecycle event,
// and serves symbol, reference, and completion queries from the
// resulting index.
package lsp

import (
	"os"
	"sync"

	"github.com/luthersystems/dwsls/compiler"
	"github.com/luthersystems/dwsls/fault"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "dwsls"

// Server is the dwsls language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	provider compiler.Provider
	rootURI  string
	rootPath string
	log      commonlog.Logger

	sessionMu sync.RWMutex
	session   *Session

	// Workspace watcher, started on initialize when enabled.
	watchEnabled bool
	watcher      *Watcher

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithProvider injects the embedder's compiler front end. The server
// cannot initialize without one.
func WithProvider(p compiler.Provider) Option {
	return func(s *Server) { s.provider = p }
}

// WithWorkspaceWatcher enables the fsnotify watcher that feeds external
// file changes into the session alongside client notifications.
func WithWorkspaceWatcher() Option {
	return func(s *Server) { s.watchEnabled = true }
}

// New creates a new dwsls LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		log:    commonlog.GetLogger("dwsls.server"),
		exitFn: os.Exit,
	}
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		Exit:        s.exit,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,

		WorkspaceSymbol:                s.workspaceSymbol,
		WorkspaceDidChangeWatchedFiles: s.workspaceDidChangeWatchedFiles,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// Session returns the active workspace session, or nil before
// initialization.
func (s *Server) Session() *Session {
	s.sessionMu.RLock()
	defer s.sessionMu.RUnlock()
	return s.session
}

// initialize handles the LSP initialize request. It creates the single
// workspace session for the client's root.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}

	session, err := NewSession(s.rootPath, s.provider)
	if err != nil {
		return nil, err
	}
	session.SetPublisher(PublisherFunc(s.publishDiagnostics))
	s.sessionMu.Lock()
	s.session = session
	s.sessionMu.Unlock()

	if s.watchEnabled {
		w, err := NewWatcher(s.rootPath, session)
		if err != nil {
			s.log.Errorf("workspace watcher disabled: %s", err)
		} else {
			s.watcher = w
			s.watcher.Start()
		}
	}

	capabilities := s.handler.CreateServerCapabilities()

	// The patch engine exists to honor incremental sync.
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// initialized handles the initialized notification.
func (s *Server) initialized(ctx *glsp.Context, _ *protocol.InitializedParams) error {
	s.captureNotify(ctx)
	s.log.Info("server initialized")
	return nil
}

// shutdown handles the LSP shutdown request: the watcher stops and all
// shadows are discarded.
func (s *Server) shutdown(_ *glsp.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
	if session := s.Session(); session != nil {
		if err := session.Shutdown(); err != nil {
			s.log.Errorf("session shutdown: %s", err)
		}
	}
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// requireSession returns the session or an error when initialize has
// not run yet.
func (s *Server) requireSession() (*Session, error) {
	if session := s.Session(); session != nil {
		return session, nil
	}
	return nil, fault.Invalidf("workspace not initialized")
}

// captureNotify stores the notification function from the context for
// async use (publishing diagnostics after watcher-triggered compiles).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}
