package markup

import (
	"strings"

	"github.com/lexcodex/docmark/lexer"
)

// Kind classifies a comment token's documentation style.
type Kind int

const (
	None Kind = iota
	// BlockBefore is /** ... */ or /*! ... */ documenting the following decl.
	BlockBefore
	// BlockAfter is /**< ... */ or /*!< ... */ documenting the preceding decl.
	BlockAfter
	// LineBangBefore is //! ...
	LineBangBefore
	// LineSlashBefore is /// ...
	LineSlashBefore
	// LineBangAfter is //!< ...
	LineBangAfter
	// LineSlashAfter is ///< ...
	LineSlashAfter
)

// Flags are properties derived from a Kind: which side of the anchor the
// markup documents, and whether it spans one block token or a run of line
// tokens.
type Flags uint8

const (
	FlagBefore Flags = 1 << iota
	FlagAfter
	FlagBlock
	FlagMultiToken
)

// Flags returns the placement and span properties for the kind.
func (k Kind) Flags() Flags {
	switch k {
	case BlockBefore:
		return FlagBefore | FlagBlock
	case BlockAfter:
		return FlagAfter | FlagBlock
	case LineBangBefore, LineSlashBefore:
		return FlagBefore | FlagMultiToken
	case LineBangAfter, LineSlashAfter:
		return FlagAfter | FlagMultiToken
	}
	return 0
}

// IsBefore reports whether the kind documents the declaration after it.
func (k Kind) IsBefore() bool { return k.Flags()&FlagBefore != 0 }

// IsAfter reports whether the kind documents the declaration before it.
func (k Kind) IsAfter() bool { return k.Flags()&FlagAfter != 0 }

// Classify inspects a comment token and determines its documentation kind.
// Non-comment tokens and comments without a doc marker classify as None.
// Total: never fails on short or empty content.
func Classify(tok lexer.Token) Kind {
	text := tok.Text
	switch tok.Kind {
	case lexer.BlockComment:
		if len(text) >= 3 && (text[2] == '!' || text[2] == '*') {
			if len(text) >= 4 && text[3] == '<' {
				return BlockAfter
			}
			return BlockBefore
		}
	case lexer.LineComment:
		if len(text) >= 3 {
			switch text[2] {
			case '!':
				if len(text) >= 4 && text[3] == '<' {
					return LineBangAfter
				}
				return LineBangBefore
			case '/':
				if len(text) >= 4 && text[3] == '<' {
					return LineSlashAfter
				}
				return LineSlashBefore
			}
		}
	}
	return None
}

// StripMarker removes the opening doc marker for the kind from line. For
// block kinds it strips only the opening delimiter; the trailing */ is the
// reconstructor's concern since it sits on the final line.
func StripMarker(k Kind, line string) string {
	switch k {
	case BlockBefore:
		if strings.HasPrefix(line, "/**") || strings.HasPrefix(line, "/*!") {
			return line[3:]
		}
	case BlockAfter:
		if strings.HasPrefix(line, "/**<") || strings.HasPrefix(line, "/*!<") {
			return line[4:]
		}
	case LineBangBefore:
		if strings.HasPrefix(line, "//!") {
			return line[3:]
		}
	case LineSlashBefore:
		if strings.HasPrefix(line, "///") {
			return line[3:]
		}
	case LineBangAfter:
		if strings.HasPrefix(line, "//!<") {
			return line[4:]
		}
	case LineSlashAfter:
		if strings.HasPrefix(line, "///<") {
			return line[4:]
		}
	}
	return line
}
