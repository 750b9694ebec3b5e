// Copyright © 2025 The DWSLS authors

package lsp

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/luthersystems/dwsls/analysis"
	"github.com/luthersystems/dwsls/compiler"
	"github.com/luthersystems/dwsls/fault"
	"github.com/luthersystems/dwsls/textedit"
	"github.com/tliron/commonlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "github.com/luthersystems/dwsls/lsp"

// Publisher receives one compile pass's diagnostics for a single file.
// It is never invoked with an empty set.
type Publisher interface {
	Publish(uri string, diags []compiler.Diagnostic)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(uri string, diags []compiler.Diagnostic)

// Publish implements Publisher.
func (f PublisherFunc) Publish(uri string, diags []compiler.Diagnostic) {
	f(uri, diags)
}

// WatchedChange classifies an externally observed file change.
type WatchedChange int

const (
	WatchedCreated WatchedChange = iota
	WatchedChanged
	WatchedDeleted
)

func (c WatchedChange) String() string {
	switch c {
	case WatchedCreated:
		return "created"
	case WatchedChanged:
		return "changed"
	case WatchedDeleted:
		return "deleted"
	}
	return "unknown"
}

// WatchedEvent is one externally created/modified/deleted file, either
// reported by the client or observed by the workspace watcher.
type WatchedEvent struct {
	URI    string
	Change WatchedChange
}

// Session owns the single active workspace: the open documents with
// their shadows, the compiler provider handle, and the current symbol
// index. All mutating operations and the compile they trigger are
// serialized through one lock; at most one compile is in flight at a
// time. Queries read the index through an atomic pointer and may run
// concurrently.
type Session struct {
	rootPath string
	rootURI  string
	provider compiler.Provider
	store    *textedit.Store
	index    atomic.Pointer[analysis.Index]
	log      commonlog.Logger

	// mu is the single-writer lock over document mutation + compile.
	mu sync.Mutex

	pubMu     sync.Mutex
	publisher Publisher
}

// NewSession creates a session for the workspace rooted at rootPath.
func NewSession(rootPath string, provider compiler.Provider) (*Session, error) {
	if provider == nil {
		return nil, fault.Unsupportedf("no compiler provider configured")
	}
	store, err := textedit.NewStore()
	if err != nil {
		return nil, err
	}
	s := &Session{
		rootPath: rootPath,
		rootURI:  pathToURI(rootPath),
		provider: provider,
		store:    store,
		log:      commonlog.GetLogger("dwsls.session"),
	}
	s.index.Store(analysis.NewIndex())
	return s, nil
}

// SetPublisher registers the diagnostic sink. Registering again
// replaces the previous sink (last writer wins).
func (s *Session) SetPublisher(p Publisher) {
	s.pubMu.Lock()
	s.publisher = p
	s.pubMu.Unlock()
}

// Index returns the current symbol index snapshot.
func (s *Session) Index() *analysis.Index {
	return s.index.Load()
}

// Document returns the open document for uri, or nil.
func (s *Session) Document(uri string) *textedit.Document {
	return s.store.Get(uri)
}

// Open registers a document, seeds its shadow with the editor's text,
// and recompiles the workspace. The original file must exist on disk.
func (s *Session) Open(ctx context.Context, uri, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := uriToPath(uri)
	if _, err := os.Stat(path); err != nil {
		return fault.Invalidf("open %s: no such file", uri)
	}
	if _, err := s.store.Open(uri, path, text); err != nil {
		return err
	}
	s.log.Infof("opened %s", uri)
	return s.compileAndPublish(ctx)
}

// Change applies a batch of edits to an open document's shadow and
// recompiles. An empty batch is rejected before any compile runs.
func (s *Session) Change(ctx context.Context, uri string, edits []textedit.Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(edits) == 0 {
		return fault.Invalidf("change %s: empty change list", uri)
	}
	doc := s.store.Get(uri)
	if doc == nil {
		return fault.Invalidf("change %s: document not open", uri)
	}
	if err := doc.ApplyChanges(edits); err != nil {
		return err
	}
	return s.compileAndPublish(ctx)
}

// Save copies an open document's shadow onto its original path and
// recompiles.
func (s *Session) Save(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.store.Get(uri)
	if doc == nil {
		return fault.Invalidf("save %s: document not open", uri)
	}
	if err := doc.SaveChanges(); err != nil {
		return err
	}
	s.log.Infof("saved %s", uri)
	return s.compileAndPublish(ctx)
}

// CloseDocument discards a document's shadow and recompiles against
// on-disk truth. The original file is untouched.
func (s *Session) CloseDocument(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Close(uri); err != nil {
		return err
	}
	s.log.Infof("closed %s", uri)
	return s.compileAndPublish(ctx)
}

// ChangeWatchedFiles handles externally created/modified/deleted files.
// These bypass the shadow mechanism entirely; the session only
// recompiles and republishes.
func (s *Session) ChangeWatchedFiles(ctx context.Context, events []WatchedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		s.log.Debugf("watched file %s: %s", ev.Change, ev.URI)
	}
	return s.compileAndPublish(ctx)
}

// Shutdown discards all shadows and releases the shadow directory.
func (s *Session) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Cleanup()
}

// compileAndPublish runs one compile pass over the workspace with the
// current shadow overlay. The index is replaced only when the compile
// produced no diagnostics; otherwise the previous index stays in place
// so queries keep answering from last-good state. Diagnostics are then
// grouped by file and handed to the publisher, with unattributed ones
// grouped under the workspace root. Callers must hold s.mu.
func (s *Session) compileAndPublish(ctx context.Context) error {
	ctx, sp := otel.Tracer(tracerName).Start(ctx, "compile")
	defer sp.End()

	res, err := s.provider.Parse(ctx, s.rootPath, s.store.Overlay())
	if err != nil {
		s.log.Errorf("compile failed: %s", err)
		sp.RecordError(err)
		return fault.IOf(err, "compile workspace %s", s.rootPath)
	}
	sp.SetAttributes(
		attribute.Int("dwsls.files", len(res.Files)),
		attribute.Int("dwsls.diagnostics", len(res.Diagnostics)),
	)

	if len(res.Diagnostics) == 0 {
		s.index.Store(analysis.Build(res))
	} else {
		s.log.Debugf("compile produced %d diagnostics; keeping previous index", len(res.Diagnostics))
	}

	s.publish(res.Diagnostics)
	return nil
}

// publish groups diagnostics by file URI and hands each non-empty group
// to the registered publisher. Publication happens strictly after any
// index swap so readers never observe diagnostics for an index they
// cannot query yet.
func (s *Session) publish(diags []compiler.Diagnostic) {
	s.pubMu.Lock()
	pub := s.publisher
	s.pubMu.Unlock()
	if pub == nil || len(diags) == 0 {
		return
	}

	grouped := make(map[string][]compiler.Diagnostic)
	for _, d := range diags {
		uri := s.rootURI
		if d.Path != "" {
			uri = pathToURI(d.Path)
		}
		grouped[uri] = append(grouped[uri], d)
	}
	for uri, group := range grouped {
		pub.Publish(uri, group)
	}
}
