package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grindlemire/memonoa/internal/config"
	"github.com/grindlemire/memonoa/internal/docindex"
)

func newIndexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index [root]",
		Short: "Print the note index (name and path of every note)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			var root string
			if len(args) > 0 {
				root = args[0]
			}
			snap, err := buildIndex(cmd, cfg, root)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range snap.Names() {
				path, _ := snap.Lookup(name)
				fmt.Fprintf(tw, "%s\t%s\n", name, path)
			}
			return tw.Flush()
		},
	}
}

// buildIndex scans root, or the configured root, or the working directory.
func buildIndex(cmd *cobra.Command, cfg config.Config, root string) (docindex.Snapshot, error) {
	opts := cfg.IndexOptions(root)
	if opts.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return docindex.Snapshot{}, fmt.Errorf("getting current directory: %w", err)
		}
		opts.Root = wd
	}

	store := docindex.NewStore(nil)
	if _, err := docindex.Rescan(cmd.Context(), store, opts); err != nil {
		return docindex.Snapshot{}, err
	}
	// Nothing else holds the store, so the snapshot cannot fail.
	snap, _ := store.Snapshot()
	return snap, nil
}
