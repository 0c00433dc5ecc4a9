package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/docmark/engine"
	"github.com/lexcodex/docmark/markup"
	"github.com/lexcodex/docmark/server"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Serve documentation hovers over LSP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.New(os.Stderr, "docmark-lsp: ", log.LstdFlags)
			eng := &engine.Engine{
				Sink:                markup.LoggerSink{Logger: logger},
				IncludeUndocumented: cfg.IncludeUndocumented,
			}
			srv := server.NewDocServer(eng, logger)
			srv.ShowHidden = cfg.ShowHidden
			return srv.Run(cmd.Context(), stdioConn{})
		},
	}
	return cmd
}

// stdioConn adapts stdin/stdout into the ReadWriteCloser jsonrpc2 expects.
type stdioConn struct{}

func (stdioConn) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioConn) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioConn) Close() error                { return nil }

var _ io.ReadWriteCloser = stdioConn{}
