package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/lexcodex/docmark/engine"
)

const hoverSrc = `/// Ambient light level.
float ambient = 0.1;

//@hidden:
/// Scratch state, not part of the surface.
int scratch;
`

func newTestServer(t *testing.T) *DocServer {
	t.Helper()
	return NewDocServer(&engine.Engine{}, nil)
}

func TestDocAtLine(t *testing.T) {
	docs := []engine.Doc{
		{Name: "a", Line: 2},
		{Name: "b", Line: 8},
	}
	require.Equal(t, "a", docAtLine(docs, 2).Name)
	require.Equal(t, "a", docAtLine(docs, 5).Name)
	require.Equal(t, "b", docAtLine(docs, 8).Name)
	require.Equal(t, "b", docAtLine(docs, 100).Name)
	require.Nil(t, docAtLine(docs, 1))
	require.Nil(t, docAtLine(nil, 1))
}

func TestHoverOnOpenDocument(t *testing.T) {
	srv := newTestServer(t)
	uri := protocol.DocumentURI("file:///ws/scene.slang")
	srv.setDocument(uri, hoverSrc)

	result, err := srv.hover(protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 1}, // zero-based: source line 2
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	hover := result.(map[string]interface{})
	contents := hover["contents"].(map[string]interface{})
	require.Equal(t, "markdown", contents["kind"])
	value := contents["value"].(string)
	require.Contains(t, value, "**ambient**")
	require.Contains(t, value, "Ambient light level.")
}

func TestHoverHiddenFiltered(t *testing.T) {
	srv := newTestServer(t)
	uri := protocol.DocumentURI("file:///ws/scene.slang")
	srv.setDocument(uri, hoverSrc)

	params := protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 5}, // the hidden declaration
		},
	}
	result, err := srv.hover(params)
	require.NoError(t, err)
	require.Nil(t, result)

	srv.ShowHidden = true
	result, err = srv.hover(params)
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestHoverMissingDocument(t *testing.T) {
	srv := newTestServer(t)
	_, err := srv.hover(protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///ws/absent.slang"},
		},
	})
	require.Error(t, err)
}

func TestDocumentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	uri := protocol.DocumentURI("file:///ws/a.slang")

	srv.setDocument(uri, "int a;\n")
	text, err := srv.contents(uri)
	require.NoError(t, err)
	require.Equal(t, "int a;\n", text)

	srv.setDocument(uri, "int b;\n")
	text, err = srv.contents(uri)
	require.NoError(t, err)
	require.Equal(t, "int b;\n", text)

	srv.mu.Lock()
	delete(srv.documents, uri)
	srv.mu.Unlock()
	_, err = srv.contents(uri)
	require.Error(t, err)
}

func TestURIPathRoundTrip(t *testing.T) {
	uri := PathToURI("/ws/scene.slang")
	require.True(t, strings.HasPrefix(uri, "file://"))
	require.Equal(t, "/ws/scene.slang", URIToPath(uri))
}
