package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/highlight"
	"github.com/kobzarvs/codepad/internal/textpos"
	"github.com/kobzarvs/codepad/internal/theme"
)

func newSpansCmd(root *rootFlags) *cobra.Command {
	var from, to int
	cmd := &cobra.Command{
		Use:   "spans <file>",
		Short: "Print the highlight spans of a file",
		Long: `Highlight a file without opening the editor and print one line per
attribute write: the UTF-16 range, the token kind and the quoted text.

Use --from and --to to restrict the pass to a visible range.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if root.theme != "" {
				if cfg.Theme, err = cfg.Theme.WithTheme(root.theme); err != nil {
					return err
				}
			}
			langs, err := config.LoadLanguages()
			if err != nil {
				return err
			}
			lang := langs.Match(args[0])
			if root.language != "" {
				if lang = langs.Lookup(root.language); lang == nil {
					return fmt.Errorf("unknown language %q", root.language)
				}
			}

			var ps *highlight.PatternSet
			if lang != nil {
				ps = highlight.Compile(*lang)
			}
			engine := highlight.New(ps, theme.FromConfig(cfg.Theme), cfg.Font, highlight.Options{
				MaxChars: cfg.Editor.MaxHighlightChars,
			})

			text := textpos.NewText(string(data))
			var visible *textpos.Range
			if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				r := textpos.Range{Start: from, End: to}
				if !cmd.Flags().Changed("to") {
					r.End = text.Len()
				}
				visible = &r
			}
			writeSpans(cmd.OutOrStdout(), text, engine.HighlightText(text, visible))
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "start of the visible range in UTF-16 units")
	cmd.Flags().IntVar(&to, "to", 0, "end of the visible range in UTF-16 units")
	return cmd
}

func writeSpans(w io.Writer, text *textpos.Text, at *highlight.AttributedText) {
	for _, sp := range at.Spans {
		fmt.Fprintf(w, "%d-%d\t%s\t%s\n", sp.Range.Start, sp.Range.End, sp.Kind,
			strconv.Quote(text.Slice(sp.Range)))
	}
}
