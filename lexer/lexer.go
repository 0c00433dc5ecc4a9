package lexer

import (
	"github.com/lexcodex/docmark/source"
)

// Options controls lexing behaviour.
type Options struct {
	// RetainComments keeps comment tokens in the output stream. They are
	// dropped by default, which is what structural consumers want; the doc
	// extractor turns this on.
	RetainComments bool
}

// Lexer scans a single file into a token stream. It understands just enough
// of a C-family surface syntax for structural scanning: comments, strings,
// numbers, identifiers and punctuation. Everything else becomes an Operator
// or Unknown token.
type Lexer struct {
	file *source.File
	opts Options
	src  string
	pos  int
}

// New returns a lexer over the file's contents.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, opts: opts, src: file.Content}
}

// Tokenize scans the whole file and returns the token sequence, terminated
// by an EOF token. Token order is offset-monotonic.
func Tokenize(file *source.File, opts Options) []Token {
	lx := New(file, opts)
	var toks []Token
	for {
		tok := lx.Next()
		if tok.Kind == LineComment || tok.Kind == BlockComment {
			if !opts.RetainComments {
				continue
			}
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

// Next returns the next token, including comments regardless of options;
// Tokenize applies the comment filter.
func (lx *Lexer) Next() Token {
	lx.skipWhitespace()
	start := lx.pos
	if lx.pos >= len(lx.src) {
		return lx.token(EOF, start)
	}

	c := lx.src[lx.pos]
	switch {
	case c == '/' && lx.peek(1) == '/':
		lx.scanLineComment()
		return lx.token(LineComment, start)
	case c == '/' && lx.peek(1) == '*':
		lx.scanBlockComment()
		return lx.token(BlockComment, start)
	case c == '"' || c == '\'':
		lx.scanString(c)
		return lx.token(String, start)
	case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
		lx.scanNumber()
		return lx.token(Number, start)
	case isIdentStart(c):
		lx.scanIdentifier()
		return lx.token(Identifier, start)
	}

	lx.pos++
	switch c {
	case '(':
		return lx.token(LParen, start)
	case ')':
		return lx.token(RParen, start)
	case '[':
		return lx.token(LBracket, start)
	case ']':
		return lx.token(RBracket, start)
	case '{':
		return lx.token(LBrace, start)
	case '}':
		return lx.token(RBrace, start)
	case '<':
		return lx.token(OpLess, start)
	case '>':
		return lx.token(OpGreater, start)
	case ',':
		return lx.token(Comma, start)
	case ';':
		return lx.token(Semicolon, start)
	}
	if isOperator(c) {
		return lx.token(Operator, start)
	}
	return lx.token(Unknown, start)
}

func (lx *Lexer) token(kind TokenKind, start int) Token {
	return Token{
		Kind: kind,
		Loc:  lx.file.LocForOffset(start),
		Text: lx.src[start:lx.pos],
	}
}

func (lx *Lexer) peek(ahead int) byte {
	if lx.pos+ahead >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+ahead]
}

func (lx *Lexer) skipWhitespace() {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ', '\t', '\r', '\n':
			lx.pos++
		default:
			return
		}
	}
}

func (lx *Lexer) scanLineComment() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *Lexer) scanBlockComment() {
	lx.pos += 2
	for lx.pos < len(lx.src) {
		if lx.src[lx.pos] == '*' && lx.peek(1) == '/' {
			lx.pos += 2
			return
		}
		lx.pos++
	}
}

func (lx *Lexer) scanString(quote byte) {
	lx.pos++
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			// Skip the escaped byte, but never past end of input.
			lx.pos++
			if lx.pos < len(lx.src) {
				lx.pos++
			}
		case quote:
			lx.pos++
			return
		case '\n':
			// Unterminated; stop at end of line rather than swallowing the file.
			return
		default:
			lx.pos++
		}
	}
}

func (lx *Lexer) scanNumber() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if isDigit(c) || c == '.' || c == 'x' || c == 'X' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			lx.pos++
			continue
		}
		return
	}
}

func (lx *Lexer) scanIdentifier() {
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '=', '!', '&', '|', '^', '~', '?', ':', '.', '@', '#':
		return true
	}
	return false
}
