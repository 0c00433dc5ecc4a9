package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexcodex/docmark/engine"
	"github.com/lexcodex/docmark/markup"
)

func newExtractCmd() *cobra.Command {
	var asJSON bool
	var showHidden bool
	var includeUndocumented bool
	cmd := &cobra.Command{
		Use:   "extract [files or dirs]",
		Short: "Extract documentation comments and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("show-hidden") {
				cfg.ShowHidden = showHidden
			}
			if cmd.Flags().Changed("include-undocumented") {
				cfg.IncludeUndocumented = includeUndocumented
			}
			files, err := cfg.collectSources(args)
			if err != nil {
				return err
			}

			eng := &engine.Engine{
				Sink:                markup.LoggerSink{Logger: log.New(cmd.ErrOrStderr(), "", 0)},
				IncludeUndocumented: cfg.IncludeUndocumented,
			}

			var all []engine.Doc
			for _, file := range files {
				docs, err := eng.ExtractFile(file)
				if err != nil {
					return err
				}
				for _, doc := range docs {
					if doc.Visibility == markup.Hidden && !cfg.ShowHidden {
						continue
					}
					all = append(all, doc)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}
			for _, doc := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %s (%s, %s)\n", doc.File, doc.Line, doc.Name, doc.Kind, doc.VisLabel)
				text := strings.TrimRight(doc.Text, "\n")
				if text != "" {
					for _, line := range strings.Split(text, "\n") {
						fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", line)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	cmd.Flags().BoolVar(&showHidden, "show-hidden", false, "Include hidden-visibility documentation")
	cmd.Flags().BoolVar(&includeUndocumented, "include-undocumented", false, "Include declarations without documentation")
	return cmd
}
