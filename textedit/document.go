// Copyright © 2025 The DWSLS authors

// Package textedit maintains shadow working copies of workspace files
// and applies batched range edits to them. Every open document owns one
// shadow file: the original content plus the accumulated unsaved edits.
// The compiler reads shadows, so editor state is reflected on disk
// without touching the originals until a save.
package textedit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/luthersystems/dwsls/fault"
)

// Document is an open file with a shadow working copy. All mutating
// operations are serialized by a per-document lock; operations on
// distinct documents are independent.
type Document struct {
	mu       sync.Mutex
	uri      string
	original string
	shadow   string
	dirty    bool
}

// URI returns the canonical document URI.
func (d *Document) URI() string { return d.uri }

// OriginalPath returns the on-disk path the document was opened from.
func (d *Document) OriginalPath() string { return d.original }

// ShadowPath returns the path of the shadow working copy.
func (d *Document) ShadowPath() string { return d.shadow }

// Dirty reports whether the shadow has unsaved edits.
func (d *Document) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty
}

// Content reads the current shadow content.
func (d *Document) Content() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, err := os.ReadFile(d.shadow)
	if err != nil {
		return "", fault.IOf(err, "read shadow for %s", d.uri)
	}
	return string(data), nil
}

// SaveChanges copies the shadow content onto the original path. The
// shadow is not reset; it keeps reflecting the working copy.
func (d *Document) SaveChanges() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, err := os.ReadFile(d.shadow)
	if err != nil {
		return fault.IOf(err, "read shadow for %s", d.uri)
	}
	if err := writeFileAtomic(d.original, data); err != nil {
		return fault.IOf(err, "save %s", d.uri)
	}
	d.dirty = false
	return nil
}

// Store tracks all open documents and owns the directory their shadow
// files live in.
type Store struct {
	mu        sync.RWMutex
	docs      map[string]*Document
	shadowDir string
	seq       atomic.Uint64
}

// NewStore creates a store with a fresh shadow directory.
func NewStore() (*Store, error) {
	dir, err := os.MkdirTemp("", "dwsls-shadow-*")
	if err != nil {
		return nil, fault.IOf(err, "create shadow directory")
	}
	return &Store{
		docs:      make(map[string]*Document),
		shadowDir: dir,
	}, nil
}

// Open registers a document and seeds its shadow with text. Opening a
// URI that is already open replaces the previous registration.
func (s *Store) Open(uri, originalPath, text string) (*Document, error) {
	name := fmt.Sprintf("%d-%s", s.seq.Add(1), filepath.Base(originalPath))
	shadow := filepath.Join(s.shadowDir, name)
	if err := writeFileAtomic(shadow, []byte(text)); err != nil {
		return nil, fault.IOf(err, "seed shadow for %s", uri)
	}
	doc := &Document{
		uri:      uri,
		original: originalPath,
		shadow:   shadow,
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc, nil
}

// Get retrieves an open document by URI, or nil.
func (s *Store) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns all open documents.
func (s *Store) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	return docs
}

// Overlay maps original paths to shadow paths for all open documents,
// in the form the compiler consumes.
func (s *Store) Overlay() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	overlay := make(map[string]string, len(s.docs))
	for _, d := range s.docs {
		overlay[d.original] = d.shadow
	}
	return overlay
}

// Close discards a document's shadow and removes it from the store.
// The original file is untouched. Closing an unknown URI is a no-op.
func (s *Store) Close(uri string) error {
	s.mu.Lock()
	doc := s.docs[uri]
	delete(s.docs, uri)
	s.mu.Unlock()
	if doc == nil {
		return nil
	}
	if err := os.Remove(doc.shadow); err != nil && !os.IsNotExist(err) {
		return fault.IOf(err, "discard shadow for %s", uri)
	}
	return nil
}

// Cleanup discards all shadows and the shadow directory.
func (s *Store) Cleanup() error {
	s.mu.Lock()
	s.docs = make(map[string]*Document)
	dir := s.shadowDir
	s.mu.Unlock()
	if err := os.RemoveAll(dir); err != nil {
		return fault.IOf(err, "remove shadow directory")
	}
	return nil
}

// writeFileAtomic writes data to path through a temp file in the same
// directory followed by a rename, so a concurrent reader never observes
// a half-written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dwsls-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
