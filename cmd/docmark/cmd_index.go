package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexcodex/docmark/engine"
	"github.com/lexcodex/docmark/index"
	"github.com/lexcodex/docmark/markup"
)

func newIndexCmd() *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "index [files or dirs]",
		Short: "Extract documentation into the SQLite index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dbPath := cfg.indexPath()
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return err
			}
			store, err := index.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if stats {
				return printStats(cmd, store)
			}

			files, err := cfg.collectSources(args)
			if err != nil {
				return err
			}
			eng := &engine.Engine{
				Sink:                markup.LoggerSink{Logger: log.New(cmd.ErrOrStderr(), "", 0)},
				IncludeUndocumented: cfg.IncludeUndocumented,
			}
			indexed := 0
			for _, file := range files {
				content, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				docs, err := eng.ExtractSource(file, string(content))
				if err != nil {
					log.Printf("index warning: %v", err)
					continue
				}
				if err := store.SaveFile(file, index.HashContent(string(content)), docs); err != nil {
					return err
				}
				indexed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d file(s) into %s\n", indexed, dbPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "Print index statistics and exit")
	return cmd
}

func printStats(cmd *cobra.Command, store *index.Store) error {
	stats, err := store.GetStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "files: %d\ndocs: %d\nsize: %d bytes\n", stats.TotalFiles, stats.TotalDocs, stats.DatabaseSize)
	for vis, count := range stats.DocsByVisibility {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", vis, count)
	}
	return nil
}

func newQueryCmd() *cobra.Command {
	var kinds []string
	var limit int
	cmd := &cobra.Command{
		Use:   "query <name-pattern>",
		Short: "Search the documentation index by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := index.Open(cfg.indexPath())
			if err != nil {
				return err
			}
			defer store.Close()

			query := index.DocQuery{
				NamePattern: args[0],
				Kinds:       kinds,
				Limit:       limit,
			}
			if !cfg.ShowHidden {
				query.Visibilities = []string{
					markup.Public.String(),
					markup.Internal.String(),
				}
			}
			docs, err := store.SearchDocs(query)
			if err != nil {
				return err
			}
			for _, doc := range docs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %s (%s, %s)\n", doc.File, doc.Line, doc.Name, doc.Kind, doc.VisLabel)
				for _, line := range strings.Split(strings.TrimRight(doc.Text, "\n"), "\n") {
					if line != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", line)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Restrict to declaration kinds (func, var, struct, ...)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results")
	return cmd
}
