package markup

import (
	"errors"
	"fmt"

	"github.com/lexcodex/docmark/lexer"
	"github.com/lexcodex/docmark/source"
)

// ErrNotFound means a declaration has no documentation at the searched
// locations. It is the expected, non-fatal outcome; any other error from a
// search is a contract violation and aborts the batch.
var ErrNotFound = errors.New("markup: not found")

// Location describes where a markup region is expected relative to a
// declaration's surrounding punctuation.
type Location int

const (
	LocBefore Location = iota
	LocAfterParam
	LocAfterGenericParam
	LocAfterEnumCase
	LocAfterSemicolon
)

func (l Location) String() string {
	switch l {
	case LocBefore:
		return "before"
	case LocAfterParam:
		return "after_param"
	case LocAfterGenericParam:
		return "after_generic_param"
	case LocAfterEnumCase:
		return "after_enum_case"
	case LocAfterSemicolon:
		return "after_semicolon"
	}
	return "invalid"
}

// Direction is the scan direction implied by a Location.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) step() int {
	if d == Backward {
		return -1
	}
	return 1
}

// direction returns Backward for LocBefore, Forward for every After variant.
func (l Location) direction() Direction {
	if l == LocBefore {
		return Backward
	}
	return Forward
}

// FoundMarkup is a located markup region: a half-open token index range.
type FoundMarkup struct {
	Kind     Kind
	Location Location
	Start    int // inclusive
	End      int // exclusive
}

// findInfo carries the per-declaration search context. Tokens are borrowed
// from the batch's per-file scratch; nothing here outlives the file pass.
type findInfo struct {
	file       *source.File
	tokens     []lexer.Token
	tokenIndex int
	lineIndex  int
}

func (info *findInfo) tokenLine(i int) int {
	off := info.file.Offset(info.tokens[i].Loc)
	return info.file.LineIndexForOffset(off)
}

// findStartIndex walks tokens from the anchor in the location's direction,
// tracking bracket/paren/brace/angle nesting, and returns the index of the
// first candidate markup token (or the token just past the punctuation the
// location names). Returns -1 when the search hits a structural boundary
// without finding anything.
func findStartIndex(info *findInfo, loc Location) int {
	step := loc.direction().step()
	openCount := 0

	for i := info.tokenIndex; i >= 0 && i < len(info.tokens); i += step {
		tok := info.tokens[i]
		switch tok.Kind {
		case lexer.LBrace, lexer.LBracket, lexer.LParen, lexer.OpLess:
			openCount += step
			if openCount < 0 {
				return -1
			}
		case lexer.RBracket:
			openCount -= step
			if openCount < 0 {
				return -1
			}
		case lexer.OpGreater:
			if loc == LocAfterGenericParam && openCount == 0 {
				return i + 1
			}
			openCount -= step
			if openCount < 0 {
				return -1
			}
		case lexer.RParen:
			if loc == LocAfterParam && openCount == 0 {
				return i + 1
			}
			openCount -= step
			if openCount < 0 {
				return -1
			}
		case lexer.RBrace:
			// A declaration boundary was crossed without finding markup.
			if loc == LocBefore || loc == LocAfterEnumCase {
				return -1
			}
		case lexer.BlockComment, lexer.LineComment:
			if openCount == 0 {
				kind := Classify(tok)
				if loc == LocBefore && kind.IsBefore() {
					return i
				}
				if loc != LocBefore && kind.IsAfter() {
					return i
				}
			}
		case lexer.Comma:
			if openCount == 0 {
				switch loc {
				case LocAfterParam, LocAfterEnumCase, LocAfterGenericParam:
					return i + 1
				case LocBefore:
					return -1
				}
			}
		case lexer.Semicolon:
			if loc == LocBefore {
				return -1
			}
			if openCount == 0 && loc == LocAfterSemicolon {
				return i + 1
			}
		}
	}
	return -1
}

// findMarkupAt locates and extends a markup region for one Location. The
// start token must classify with the placement the location demands; line
// style regions then extend token by token while each next token keeps the
// same kind and sits exactly one source line further in the scan direction.
func findMarkupAt(info *findInfo, loc Location) (FoundMarkup, error) {
	startIndex := findStartIndex(info, loc)
	if startIndex < 0 || startIndex >= len(info.tokens) {
		return FoundMarkup{}, ErrNotFound
	}

	kind := Classify(info.tokens[startIndex])
	flags := kind.Flags()

	required := FlagAfter
	if loc.direction() == Backward {
		required = FlagBefore
	}
	if flags&required == 0 {
		return FoundMarkup{}, ErrNotFound
	}

	step := loc.direction().step()
	endIndex := startIndex

	if flags&FlagMultiToken != 0 {
		line := info.tokenLine(startIndex)
		for {
			next := endIndex + step
			if next < 0 || next >= len(info.tokens) {
				break
			}
			if Classify(info.tokens[next]) != kind {
				break
			}
			// Runs must be contiguous: one line further per token.
			if info.tokenLine(next) != line+step {
				break
			}
			endIndex = next
			line += step
		}
	}

	if endIndex < startIndex {
		startIndex, endIndex = endIndex, startIndex
	}

	return FoundMarkup{
		Kind:     kind,
		Location: loc,
		Start:    startIndex,
		End:      endIndex + 1,
	}, nil
}

// findFirstMarkup tries locations in order and returns the first hit along
// with its position in locs.
func findFirstMarkup(info *findInfo, locs []Location) (FoundMarkup, int, error) {
	for i, loc := range locs {
		found, err := findMarkupAt(info, loc)
		if err == nil {
			return found, i, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return FoundMarkup{}, i, err
		}
	}
	return FoundMarkup{}, len(locs), ErrNotFound
}

// findMarkup resolves the ordered location list: first success wins. The
// remaining locations are still probed so a second hit can be reported as
// ambiguous, but it never overrides the first.
func findMarkup(info *findInfo, locs []Location, sink Sink) (FoundMarkup, error) {
	found, foundIndex, err := findFirstMarkup(info, locs)
	if err != nil {
		return FoundMarkup{}, err
	}
	for _, loc := range locs[foundIndex+1:] {
		if other, err := findMarkupAt(info, loc); err == nil {
			report(sink, Diagnostic{
				Loc: info.tokens[other.Start].Loc,
				Message: fmt.Sprintf("documentation also found %s; using the %s markup",
					loc, found.Location),
			})
		}
	}
	return found, nil
}
