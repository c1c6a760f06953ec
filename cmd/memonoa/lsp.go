package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/memonoa/internal/log"
	"github.com/grindlemire/memonoa/internal/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio (for editor integration)",
		Args:  cobra.NoArgs,
		RunE:  a.runLSP,
	}
	cmd.Flags().String("log", "", "path to log file (overrides log.file)")
	cmd.Flags().String("root", "", "notes directory (overrides root)")
	return cmd
}

func (a *app) runLSP(cmd *cobra.Command, _ []string) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	logPath, _ := cmd.Flags().GetString("log")
	if logPath == "" {
		logPath = cfg.Log.File
	}
	if logPath != "" {
		if err := log.SetLevel(cfg.Log.Level); err != nil {
			return err
		}
		closeLog, err := log.Open(logPath, cfg.Log.MaxSizeMB)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer closeLog()
	}

	seg, err := cfg.NewSegmenter()
	if err != nil {
		return err
	}
	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		root = cfg.Root
	}

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
		Segmenter:  seg,
		Root:       root,
		Extensions: cfg.Extensions,
		Recursive:  cfg.Recursive,
		Watch:      cfg.Watch,
		Debounce:   cfg.WatchDebounce,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The watcher lives as long as the connection: when Run returns the
	// context is cancelled and the watcher shuts down. RunWatcher never
	// fails, so a broken watcher cannot cancel Run.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return server.Run(ctx)
	})
	g.Go(func() error {
		return server.RunWatcher(ctx)
	})
	return g.Wait()
}
