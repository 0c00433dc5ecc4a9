package lexer

import "github.com/lexcodex/docmark/source"

// TokenKind enumerates the token classes the lexer produces.
type TokenKind int

const (
	EOF TokenKind = iota
	Unknown
	LineComment
	BlockComment
	Identifier
	Number
	String
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	OpLess
	OpGreater
	Comma
	Semicolon
	Operator
)

var tokenKindNames = map[TokenKind]string{
	EOF:          "eof",
	Unknown:      "unknown",
	LineComment:  "line_comment",
	BlockComment: "block_comment",
	Identifier:   "identifier",
	Number:       "number",
	String:       "string",
	LParen:       "lparen",
	RParen:       "rparen",
	LBracket:     "lbracket",
	RBracket:     "rbracket",
	LBrace:       "lbrace",
	RBrace:       "rbrace",
	OpLess:       "less",
	OpGreater:    "greater",
	Comma:        "comma",
	Semicolon:    "semicolon",
	Operator:     "operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Token is one lexeme. Text is a slice of the file contents; tokens are
// immutable once produced and ordered by Loc.
type Token struct {
	Kind TokenKind
	Loc  source.Loc
	Text string
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == LineComment || t.Kind == BlockComment
}
