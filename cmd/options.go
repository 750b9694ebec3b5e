// Copyright © 2025 The DWSLS authors

package cmd

import "github.com/luthersystems/dwsls/compiler"

// Option configures an exported command factory (LSPCommand, CheckCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	provider compiler.Provider
}

// WithProvider injects the compiler front end used for parsing and
// diagnostics. The standalone binary ships without one; embedders that
// link dwsls as a library supply theirs here.
func WithProvider(p compiler.Provider) Option {
	return func(c *cmdConfig) { c.provider = p }
}
