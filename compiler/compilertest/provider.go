// Copyright © 2025 The DWSLS authors

// Package compilertest provides a scriptable compiler.Provider for
// exercising the server without a real front end.
package compilertest

import (
	"context"
	"sync"

	"github.com/luthersystems/dwsls/compiler"
)

// Provider returns canned results in order. Once the scripted results
// are exhausted the last one repeats. The zero value parses everything
// into an empty, diagnostic-free result.
type Provider struct {
	mu      sync.Mutex
	results []*compiler.Result
	last    *compiler.Result
	err     error
	calls   int
	// LastOverlay records the overlay of the most recent Parse call.
	LastOverlay map[string]string
	// LastRoot records the root of the most recent Parse call.
	LastRoot string
}

var _ compiler.Provider = (*Provider)(nil)

// Queue appends a canned result for a future Parse call.
func (p *Provider) Queue(res *compiler.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, res)
}

// Fail makes every subsequent Parse return err.
func (p *Provider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Calls reports how many times Parse has run.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Parse implements compiler.Provider.
func (p *Provider) Parse(_ context.Context, root string, overlay map[string]string) (*compiler.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.LastRoot = root
	p.LastOverlay = make(map[string]string, len(overlay))
	for k, v := range overlay {
		p.LastOverlay[k] = v
	}
	if p.err != nil {
		return nil, p.err
	}
	if len(p.results) > 0 {
		p.last = p.results[0]
		p.results = p.results[1:]
	}
	if p.last == nil {
		return &compiler.Result{}, nil
	}
	return p.last, nil
}
