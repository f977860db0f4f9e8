package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/codepad/internal/app"
	"github.com/kobzarvs/codepad/internal/logger"
)

type rootFlags struct {
	language string
	theme    string
	debug    bool
}

func newRootCmd(version string) *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:   "codepad [file]",
		Short: "A terminal code editor with incremental syntax coloring",
		Long: `codepad edits one file in the terminal. Coloring follows every keystroke,
with large documents highlighted on a background worker.

Examples:
  # Open a file, picking the language from its extension
  codepad main.go

  # Force a language and theme
  codepad --language python --theme dusk notes.txt`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(flags.debug); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer logger.Close()

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return app.New(app.Options{
				Path:     path,
				Language: flags.language,
				Theme:    flags.theme,
			}).Run()
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.language, "language", "l", "",
		"language to highlight with, overriding the file extension")
	cmd.PersistentFlags().StringVarP(&flags.theme, "theme", "t", "",
		"theme file from the themes directory")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "write debug level logs")

	cmd.AddCommand(newSpansCmd(&flags))
	return cmd
}
