// Copyright © 2025 The DWSLS authors

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/luthersystems/dwsls/compiler"
	"github.com/luthersystems/dwsls/diagnostic"
	"github.com/luthersystems/dwsls/fault"
	"github.com/spf13/cobra"
)

// CheckCommand creates the "check" cobra command: a one-shot compile of
// a workspace root that prints diagnostics and exits non-zero when any
// of them are errors.
func CheckCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}

	var excludes []string

	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Compile a DWScript workspace and print diagnostics",
		Long: `Compile every script under the workspace root and print annotated
diagnostics. The working directory is used when no root is given.

Examples:
  dwsls check                        Check the current directory
  dwsls check src/scripts            Check a specific directory
  dwsls check --exclude generated .  Skip diagnostics under generated/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.provider == nil {
				return fault.Unsupportedf("no compiler front end configured")
			}
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			res, err := cfg.provider.Parse(context.Background(), root, nil)
			if err != nil {
				return fault.IOf(err, "compile workspace %s", root)
			}

			diags := filterExcludes(res.Diagnostics, excludes)
			if len(diags) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no issues in %d file(s)\n", len(res.Files))
				return nil
			}

			r := &diagnostic.Renderer{Color: colorMode(), Width: 100}
			if err := r.RenderAll(cmd.OutOrStdout(), diags); err != nil {
				return err
			}
			if diagnostic.HasErrors(diags) {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Suppress diagnostics whose path matches a name, directory, or glob pattern (repeatable)")

	return cmd
}

// colorMode maps the persistent --color flag to a renderer mode.
func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

// filterExcludes drops diagnostics whose path matches any exclude
// pattern. A pattern matches the file's base name, any directory
// component, or as a glob against either.
func filterExcludes(diags []compiler.Diagnostic, excludes []string) []compiler.Diagnostic {
	if len(excludes) == 0 {
		return diags
	}
	out := make([]compiler.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if !pathExcluded(d.Path, excludes) {
			out = append(out, d)
		}
	}
	return out
}

func pathExcluded(path string, excludes []string) bool {
	components := strings.Split(filepath.ToSlash(path), "/")
	for _, pattern := range excludes {
		for _, c := range components {
			if c == "" {
				continue
			}
			if c == pattern {
				return true
			}
			if ok, err := filepath.Match(pattern, c); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(CheckCommand())
}
