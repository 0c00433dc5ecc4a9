// Package server exposes extracted documentation over LSP so editors can
// show it as hover content.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/lexcodex/docmark/engine"
	"github.com/lexcodex/docmark/markup"
)

// DocServer answers textDocument/hover requests with the documentation the
// extraction engine finds at the cursor's line. Open documents are tracked
// so hovers reflect unsaved edits.
type DocServer struct {
	Engine     *engine.Engine
	ShowHidden bool

	mu        sync.RWMutex
	documents map[protocol.DocumentURI]string
	logger    *log.Logger
}

// NewDocServer builds a server instance.
func NewDocServer(eng *engine.Engine, logger *log.Logger) *DocServer {
	if logger == nil {
		logger = log.Default()
	}
	if eng == nil {
		eng = &engine.Engine{}
	}
	return &DocServer{
		Engine:    eng,
		documents: make(map[protocol.DocumentURI]string),
		logger:    logger,
	}
}

// Run serves LSP over rwc (normally stdin/stdout) until the connection
// closes or ctx is cancelled.
func (s *DocServer) Run(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))
	defer conn.Close()

	select {
	case <-conn.DisconnectNotify():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *DocServer) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case "initialize":
		return map[string]interface{}{
			"capabilities": map[string]interface{}{
				"textDocumentSync": 1, // full sync
				"hoverProvider":    true,
			},
		}, nil
	case "initialized", "shutdown", "exit":
		return nil, nil
	case "textDocument/didOpen":
		var params protocol.DidOpenTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.setDocument(params.TextDocument.URI, params.TextDocument.Text)
		return nil, nil
	case "textDocument/didChange":
		var params protocol.DidChangeTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		// Full sync: the last change carries the whole document.
		if n := len(params.ContentChanges); n > 0 {
			s.setDocument(params.TextDocument.URI, params.ContentChanges[n-1].Text)
		}
		return nil, nil
	case "textDocument/didClose":
		var params protocol.DidCloseTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.mu.Lock()
		delete(s.documents, params.TextDocument.URI)
		s.mu.Unlock()
		return nil, nil
	case "textDocument/hover":
		var params protocol.HoverParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		return s.hover(params)
	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not handled"}
	}
}

func unmarshalParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "params required"}
	}
	return json.Unmarshal(*req.Params, v)
}

func (s *DocServer) setDocument(uri protocol.DocumentURI, text string) {
	s.mu.Lock()
	s.documents[uri] = text
	s.mu.Unlock()
}

func (s *DocServer) contents(uri protocol.DocumentURI) (string, error) {
	s.mu.RLock()
	text, ok := s.documents[uri]
	s.mu.RUnlock()
	if ok {
		return text, nil
	}
	data, err := os.ReadFile(URIToPath(string(uri)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// hover extracts documentation for the hovered file and answers with the
// entry declared at the cursor line, if any.
func (s *DocServer) hover(params protocol.HoverParams) (interface{}, error) {
	uri := params.TextDocument.URI
	text, err := s.contents(uri)
	if err != nil {
		return nil, err
	}
	docs, err := s.Engine.ExtractSource(URIToPath(string(uri)), text)
	if err != nil {
		s.logger.Printf("hover extraction failed for %s: %v", uri, err)
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	doc := docAtLine(docs, line)
	if doc == nil {
		return nil, nil
	}
	if doc.Visibility == markup.Hidden && !s.ShowHidden {
		return nil, nil
	}

	value := fmt.Sprintf("**%s** _(%s, %s)_\n\n%s", doc.Name, doc.Kind, doc.VisLabel, doc.Text)
	return map[string]interface{}{
		"contents": map[string]interface{}{
			"kind":  "markdown",
			"value": value,
		},
	}, nil
}

// docAtLine picks the doc declared exactly on line, falling back to the
// nearest one declared above it.
func docAtLine(docs []engine.Doc, line int) *engine.Doc {
	var best *engine.Doc
	for i := range docs {
		doc := &docs[i]
		if doc.Line == line {
			return doc
		}
		if doc.Line < line && (best == nil || doc.Line > best.Line) {
			best = doc
		}
	}
	return best
}

// URIToPath converts a file:// URI into a filesystem path.
func URIToPath(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	return filepath.FromSlash(path)
}

// PathToURI converts a filesystem path into a file:// URI.
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}
