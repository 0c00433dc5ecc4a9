package markup

import (
	"github.com/lexcodex/docmark/decl"
)

// SearchStyle selects the ordered location list appropriate to a
// declaration kind.
type SearchStyle int

const (
	StyleNone SearchStyle = iota
	StyleBefore
	StyleFunction
	StyleParam
	StyleVariable
	StyleEnumCase
	StyleGenericParam
)

func (s SearchStyle) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StyleBefore:
		return "before"
	case StyleFunction:
		return "function"
	case StyleParam:
		return "param"
	case StyleVariable:
		return "variable"
	case StyleEnumCase:
		return "enum_case"
	case StyleGenericParam:
		return "generic_param"
	}
	return "invalid"
}

// Generic wrappers resolve through their inner declaration; wrappers do not
// nest in practice, so recursion is bounded.
const maxGenericUnwrap = 4

// StyleForDecl maps a declaration kind to its search style. Unrecognised
// kinds get StyleBefore: only preceding markup is safe to look for.
func StyleForDecl(d *decl.Decl) SearchStyle {
	return styleForDecl(d, maxGenericUnwrap)
}

func styleForDecl(d *decl.Decl, depth int) SearchStyle {
	if d == nil || depth == 0 {
		return StyleNone
	}
	switch d.Kind {
	case decl.KindEnumCase:
		return StyleEnumCase
	case decl.KindParam:
		return StyleParam
	case decl.KindFunc:
		return StyleFunction
	case decl.KindVar, decl.KindTypeAlias, decl.KindAssocType:
		return StyleVariable
	case decl.KindGeneric:
		return styleForDecl(d.Inner, depth-1)
	case decl.KindGenericTypeParam, decl.KindGenericValueParam:
		return StyleGenericParam
	default:
		return StyleBefore
	}
}

// locationsFor returns the ordered locations a style tries; the first
// successful one wins.
func locationsFor(style SearchStyle) []Location {
	switch style {
	case StyleEnumCase:
		return []Location{LocBefore, LocAfterEnumCase}
	case StyleParam:
		return []Location{LocBefore, LocAfterParam}
	case StyleBefore, StyleFunction:
		return []Location{LocBefore}
	case StyleVariable:
		return []Location{LocBefore, LocAfterSemicolon}
	case StyleGenericParam:
		return []Location{LocBefore, LocAfterGenericParam}
	}
	return nil
}

// findMarkupForStyle runs the style's location list against the search
// context.
func findMarkupForStyle(info *findInfo, style SearchStyle, sink Sink) (FoundMarkup, error) {
	locs := locationsFor(style)
	if locs == nil {
		return FoundMarkup{}, ErrNotFound
	}
	return findMarkup(info, locs, sink)
}
