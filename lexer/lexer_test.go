package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexcodex/docmark/source"
)

func tokenize(t *testing.T, src string, retain bool) []Token {
	t.Helper()
	mgr := source.NewManager()
	file := mgr.AddFile("test.slang", src)
	return Tokenize(file, Options{RetainComments: retain})
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeBasic(t *testing.T) {
	toks := tokenize(t, "int foo = 42;", false)
	want := []TokenKind{Identifier, Identifier, Operator, Number, Semicolon, EOF}
	require.Equal(t, want, kinds(toks))
	require.Equal(t, "int", toks[0].Text)
	require.Equal(t, "foo", toks[1].Text)
	require.Equal(t, "42", toks[3].Text)
}

func TestTokenizePunctuation(t *testing.T) {
	toks := tokenize(t, "f(a, b) { v[0] < x > }", false)
	want := []TokenKind{
		Identifier, LParen, Identifier, Comma, Identifier, RParen,
		LBrace, Identifier, LBracket, Number, RBracket,
		OpLess, Identifier, OpGreater, RBrace, EOF,
	}
	require.Equal(t, want, kinds(toks))
}

func TestCommentsDroppedByDefault(t *testing.T) {
	toks := tokenize(t, "/// doc\nint x; /* note */\n", false)
	want := []TokenKind{Identifier, Identifier, Semicolon, EOF}
	require.Equal(t, want, kinds(toks))
}

func TestCommentsRetained(t *testing.T) {
	toks := tokenize(t, "/// doc\nint x; /* note */\n", true)
	want := []TokenKind{LineComment, Identifier, Identifier, Semicolon, BlockComment, EOF}
	require.Equal(t, want, kinds(toks))
	require.Equal(t, "/// doc", toks[0].Text)
	require.Equal(t, "/* note */", toks[4].Text)
}

func TestLineCommentStopsAtNewline(t *testing.T) {
	toks := tokenize(t, "// one\n// two\n", true)
	require.Equal(t, []TokenKind{LineComment, LineComment, EOF}, kinds(toks))
	require.Equal(t, "// one", toks[0].Text)
	require.Equal(t, "// two", toks[1].Text)
}

func TestBlockCommentSpansLines(t *testing.T) {
	src := "/** first\n    second\n */ int x;"
	toks := tokenize(t, src, true)
	require.Equal(t, []TokenKind{BlockComment, Identifier, Identifier, Semicolon, EOF}, kinds(toks))
	require.Equal(t, "/** first\n    second\n */", toks[0].Text)
}

func TestUnterminatedBlockComment(t *testing.T) {
	toks := tokenize(t, "/* never closed", true)
	require.Equal(t, []TokenKind{BlockComment, EOF}, kinds(toks))
	require.Equal(t, "/* never closed", toks[0].Text)
}

func TestStrings(t *testing.T) {
	toks := tokenize(t, `s = "a \" b";`, false)
	require.Equal(t, []TokenKind{Identifier, Operator, String, Semicolon, EOF}, kinds(toks))
	require.Equal(t, `"a \" b"`, toks[2].Text)
}

func TestEscapeAtEndOfInput(t *testing.T) {
	toks := tokenize(t, `"\`, true)
	require.Equal(t, []TokenKind{String, EOF}, kinds(toks))
	require.Equal(t, `"\`, toks[0].Text)
}

func TestUnterminatedStringStopsAtNewline(t *testing.T) {
	toks := tokenize(t, "\"open\nint x;", false)
	if toks[0].Kind != String {
		t.Fatalf("expected String first, got %v", toks[0].Kind)
	}
	require.Equal(t, "\"open", toks[0].Text)
	require.Equal(t, Identifier, toks[1].Kind)
}

func TestNumbers(t *testing.T) {
	for _, src := range []string{"42", "1.5", "0xFF", ".5"} {
		toks := tokenize(t, src, false)
		require.Equal(t, []TokenKind{Number, EOF}, kinds(toks), "source %q", src)
		require.Equal(t, src, toks[0].Text)
	}
}

func TestOffsetMonotonic(t *testing.T) {
	src := "/// doc\nstruct S<T> { int field; ///< trailing\n};\n"
	toks := tokenize(t, src, true)
	for i := 1; i < len(toks); i++ {
		if toks[i].Loc <= toks[i-1].Loc {
			t.Fatalf("token %d loc %d not after token %d loc %d",
				i, toks[i].Loc, i-1, toks[i-1].Loc)
		}
	}
}

func TestLocsResolveToText(t *testing.T) {
	src := "int foo;\nfloat bar;\n"
	mgr := source.NewManager()
	file := mgr.AddFile("test.slang", src)
	for _, tok := range Tokenize(file, Options{}) {
		if tok.Kind == EOF {
			continue
		}
		off := file.Offset(tok.Loc)
		require.Equal(t, tok.Text, src[off:off+len(tok.Text)])
	}
}

func TestIsComment(t *testing.T) {
	require.True(t, Token{Kind: LineComment}.IsComment())
	require.True(t, Token{Kind: BlockComment}.IsComment())
	require.False(t, Token{Kind: Identifier}.IsComment())
}
