// Copyright © 2025 The DWSLS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
)

var (
	cfgFile   string
	colorFlag string
	verbosity int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dwsls",
	Short: "DWSLS — language server for DWScript workspaces",
	Long: `DWSLS serves workspace structure over the Language Server Protocol:
document symbols, workspace symbol search, type references, and compile
diagnostics. Edits arrive as incremental patches and are applied to
shadow working copies so the compiler front end always sees in-progress
buffer state without touching the files on disk.

Getting started:
  dwsls lsp                     Start the server on stdio
  dwsls lsp --port 7998         Listen for an LSP client on TCP
  dwsls lsp --watch             Also watch the workspace for external edits
  dwsls check .                 Compile a workspace and print diagnostics

The compiler front end is pluggable. The standalone binary requires an
embedder-registered front end; see the lsp package documentation for
wiring one in.

More information:
  Source code: https://github.com/luthersystems/dwsls`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dwsls.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase log verbosity (repeatable)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// glsp and the server log through commonlog. The base level keeps
	// warnings and errors on stderr without flooding stdio transports.
	commonlog.Configure(1+verbosity, nil)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".dwsls" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".dwsls")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
