package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grindlemire/memonoa/internal/notes"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [--at N] TEXT...",
		Short: "Split a line into words and show which ones link to notes",
		Long: `Tokenize segments TEXT with the configured segmenter and classifies every
word against the note index. With --at, only the word covering that rune
offset is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runTokenize,
	}
	cmd.Flags().Int("at", -1, "print only the word at this rune offset")
	cmd.Flags().String("root", "", "notes directory (overrides root)")
	return cmd
}

func (a *app) runTokenize(cmd *cobra.Command, args []string) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	seg, err := cfg.NewSegmenter()
	if err != nil {
		return err
	}
	root, _ := cmd.Flags().GetString("root")
	snap, err := buildIndex(cmd, cfg, root)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	line := notes.Tokenize(seg, snap, text)
	out := cmd.OutOrStdout()

	at, _ := cmd.Flags().GetInt("at")
	if at < 0 {
		for _, w := range line {
			fmt.Fprintln(out, formatWord(w))
		}
		return nil
	}

	w, ok := line.FindAt(at)
	if !ok {
		return fmt.Errorf("no word at offset %d (line has %d runes)", at, line.End())
	}
	fmt.Fprintln(out, formatWord(w))
	return nil
}

func formatWord(w notes.Word) string {
	switch w := w.(type) {
	case notes.Link:
		return fmt.Sprintf("%s\tlink\t%q\t%s", w.Range, w.Value, w.Path)
	case notes.Normal:
		return fmt.Sprintf("%s\tword\t%q", w.Range, w.Value)
	default:
		return fmt.Sprintf("%s\t?\t%q", w.Span(), w.Text())
	}
}
