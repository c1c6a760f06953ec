// Package main provides the memonoa command: a language server that turns
// bare words in notes into links to the notes they name.
//
// Usage:
//
//	memonoa lsp [--log path]         Start the language server on stdio
//	memonoa index [root]             Print the note index
//	memonoa tokenize [--at N] TEXT   Classify the words of a line
//	memonoa config init [path]       Write a default config file
//	memonoa version                  Print version information
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grindlemire/memonoa/internal/config"
	"github.com/grindlemire/memonoa/internal/lsp"
)

// version is injected via ldflags at build time.
var version = "dev"

// app carries state shared by the subcommands.
type app struct {
	cfgFile string
}

// load reads the configuration named by --config, falling back to the
// default lookup order.
func (a *app) load() (config.Config, error) {
	cfg, _, err := config.Load(a.cfgFile)
	return cfg, err
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "memonoa",
		Short: "Language server that links bare words to notes",
		Long: `memonoa indexes a directory of notes by file name. Any word in an open note
that matches another note's name becomes a link: go-to-definition, hover and
document links work without any link markup.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./"+config.LocalFile+" or ~/.config/memonoa/config.yaml)")

	root.AddCommand(
		newLSPCmd(a),
		newIndexCmd(a),
		newTokenizeCmd(a),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memonoa %s\n", version)
		},
	}
}

func main() {
	lsp.Version = version
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
