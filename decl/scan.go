package decl

import (
	"github.com/lexcodex/docmark/lexer"
)

// Scan builds a best-effort declaration tree from a token stream. It is not
// a full parser: it recognises the declaration shapes the doc extractor
// cares about (namespaces, structs, enums and their cases, functions and
// their parameters, variables, type aliases, generic parameter lists) and
// skips everything else. Comment tokens in the stream are ignored.
func Scan(toks []lexer.Token) *Decl {
	s := &scanner{toks: filterComments(toks)}
	module := &Decl{Kind: KindModule}
	module.Members = s.parseMembers()
	return module
}

func filterComments(toks []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(toks))
	for _, t := range toks {
		if t.IsComment() {
			continue
		}
		out = append(out, t)
	}
	return out
}

type scanner struct {
	toks []lexer.Token
	pos  int
}

// peek synthesizes an EOF token past the end of the stream, so truncated
// or empty inputs scan the same as well-formed ones.
func (s *scanner) peek() lexer.Token {
	if s.pos >= len(s.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return s.toks[s.pos]
}

func (s *scanner) atEOF() bool { return s.peek().Kind == lexer.EOF }

func (s *scanner) next() lexer.Token {
	t := s.peek()
	s.advance()
	return t
}

func (s *scanner) advance() {
	if s.pos < len(s.toks) {
		s.pos++
	}
}

// parseMembers consumes declarations until a closing brace or EOF.
func (s *scanner) parseMembers() []*Decl {
	var members []*Decl
	for !s.atEOF() && s.peek().Kind != lexer.RBrace {
		d := s.parseDecl()
		if d != nil {
			members = append(members, d)
		}
	}
	return members
}

func (s *scanner) parseDecl() *Decl {
	tok := s.peek()
	if tok.Kind == lexer.Identifier {
		switch tok.Text {
		case "namespace":
			return s.parseNamespace()
		case "struct", "class", "interface":
			return s.parseStruct()
		case "enum":
			return s.parseEnum()
		case "extension":
			return s.parseExtension()
		case "typedef":
			return s.parseTypedef()
		case "typealias", "using":
			return s.parseTypeAlias()
		case "associatedtype":
			return s.parseAssocType()
		}
		return s.parseFuncOrVar()
	}
	// Not something we can start a declaration with; skip it.
	s.advance()
	if tok.Kind == lexer.LBrace {
		s.skipBalancedBraces()
	}
	return nil
}

func (s *scanner) parseNamespace() *Decl {
	kw := s.next()
	d := &Decl{Kind: KindNamespace, Loc: kw.Loc}
	if s.peek().Kind == lexer.Identifier {
		name := s.next()
		d.Name, d.NameLoc = name.Text, name.Loc
	}
	if s.peek().Kind == lexer.LBrace {
		s.advance()
		d.Members = s.parseMembers()
		s.expect(lexer.RBrace)
	}
	return d
}

func (s *scanner) parseStruct() *Decl {
	kw := s.next()
	d := &Decl{Kind: KindStruct, Loc: kw.Loc}
	if s.peek().Kind == lexer.Identifier {
		name := s.next()
		d.Name, d.NameLoc = name.Text, name.Loc
	}
	var generics []*Decl
	if s.peek().Kind == lexer.OpLess {
		generics = s.parseGenericParams()
	}
	// Skip inheritance clause or anything else up to the body.
	for !s.atEOF() {
		switch s.peek().Kind {
		case lexer.LBrace, lexer.Semicolon, lexer.RBrace:
		default:
			s.advance()
			continue
		}
		break
	}
	if s.peek().Kind == lexer.LBrace {
		s.advance()
		d.Members = s.parseMembers()
		s.expect(lexer.RBrace)
	}
	if s.peek().Kind == lexer.Semicolon {
		s.advance()
	}
	if generics != nil {
		return wrapGeneric(d, generics)
	}
	return d
}

func (s *scanner) parseEnum() *Decl {
	kw := s.next()
	d := &Decl{Kind: KindEnum, Loc: kw.Loc}
	if s.peek().Kind == lexer.Identifier {
		name := s.next()
		d.Name, d.NameLoc = name.Text, name.Loc
	}
	for !s.atEOF() && s.peek().Kind != lexer.LBrace && s.peek().Kind != lexer.Semicolon {
		s.advance()
	}
	if s.peek().Kind == lexer.LBrace {
		s.advance()
		d.Members = s.parseEnumCases()
		s.expect(lexer.RBrace)
	}
	if s.peek().Kind == lexer.Semicolon {
		s.advance()
	}
	return d
}

func (s *scanner) parseEnumCases() []*Decl {
	var cases []*Decl
	for !s.atEOF() && s.peek().Kind != lexer.RBrace {
		if s.peek().Kind != lexer.Identifier {
			s.advance()
			continue
		}
		name := s.next()
		cases = append(cases, &Decl{
			Kind:    KindEnumCase,
			Name:    name.Text,
			Loc:     name.Loc,
			NameLoc: name.Loc,
		})
		// Skip an initializer expression up to the separating comma.
		depth := 0
	initializer:
		for !s.atEOF() {
			switch s.peek().Kind {
			case lexer.LParen, lexer.LBracket, lexer.LBrace, lexer.OpLess:
				depth++
			case lexer.RParen, lexer.RBracket, lexer.OpGreater:
				depth--
			case lexer.RBrace:
				if depth == 0 {
					return cases
				}
				depth--
			case lexer.Comma:
				if depth == 0 {
					s.advance()
					break initializer
				}
			}
			s.advance()
		}
	}
	return cases
}

func (s *scanner) parseExtension() *Decl {
	kw := s.next()
	d := &Decl{Kind: KindExtension, Loc: kw.Loc}
	if s.peek().Kind == lexer.Identifier {
		name := s.next()
		d.Name, d.NameLoc = name.Text, name.Loc
	}
	for !s.atEOF() && s.peek().Kind != lexer.LBrace && s.peek().Kind != lexer.Semicolon {
		s.advance()
	}
	if s.peek().Kind == lexer.LBrace {
		s.advance()
		d.Members = s.parseMembers()
		s.expect(lexer.RBrace)
	}
	return d
}

func (s *scanner) parseTypedef() *Decl {
	kw := s.next()
	d := &Decl{Kind: KindTypeAlias, Loc: kw.Loc}
	// The alias name is the last identifier before the semicolon.
	for !s.atEOF() && s.peek().Kind != lexer.Semicolon && s.peek().Kind != lexer.RBrace {
		if s.peek().Kind == lexer.Identifier {
			d.Name, d.NameLoc = s.peek().Text, s.peek().Loc
		}
		s.advance()
	}
	if s.peek().Kind == lexer.Semicolon {
		s.advance()
	}
	return d
}

func (s *scanner) parseTypeAlias() *Decl {
	kw := s.next()
	d := &Decl{Kind: KindTypeAlias, Loc: kw.Loc}
	if s.peek().Kind == lexer.Identifier {
		name := s.next()
		d.Name, d.NameLoc = name.Text, name.Loc
	}
	s.skipToSemicolon()
	return d
}

func (s *scanner) parseAssocType() *Decl {
	kw := s.next()
	d := &Decl{Kind: KindAssocType, Loc: kw.Loc}
	if s.peek().Kind == lexer.Identifier {
		name := s.next()
		d.Name, d.NameLoc = name.Text, name.Loc
	}
	s.skipToSemicolon()
	return d
}

// parseFuncOrVar handles `RetType name(params) {...}`, `RetType name<T>(...)`
// and `Type name;` / `Type name = init;` shapes.
func (s *scanner) parseFuncOrVar() *Decl {
	first := s.peek()
	var lastIdent lexer.Token
	identCount := 0
	var generics []*Decl

	for !s.atEOF() {
		tok := s.peek()
		switch tok.Kind {
		case lexer.Identifier:
			lastIdent = tok
			identCount++
			s.advance()
			if s.peek().Kind == lexer.OpLess && identCount >= 2 {
				generics = s.parseGenericParams()
			}
			continue
		case lexer.LParen:
			if identCount >= 2 {
				return s.finishFunc(first, lastIdent, generics)
			}
			s.skipBalancedParens()
			continue
		case lexer.Semicolon:
			s.advance()
			if identCount >= 2 {
				return varDecl(first, lastIdent)
			}
			return nil
		case lexer.Operator:
			if tok.Text == "=" && identCount >= 2 {
				s.skipToSemicolon()
				return varDecl(first, lastIdent)
			}
			s.advance()
			continue
		case lexer.LBrace:
			s.advance()
			s.skipBalancedBraces()
			return nil
		case lexer.RBrace, lexer.EOF:
			return nil
		default:
			s.advance()
		}
	}
	return nil
}

func varDecl(first, name lexer.Token) *Decl {
	return &Decl{
		Kind:    KindVar,
		Name:    name.Text,
		Loc:     first.Loc,
		NameLoc: name.Loc,
	}
}

func (s *scanner) finishFunc(first, name lexer.Token, generics []*Decl) *Decl {
	d := &Decl{
		Kind:    KindFunc,
		Name:    name.Text,
		Loc:     first.Loc,
		NameLoc: name.Loc,
	}
	d.Members = s.parseParams()
	// Skip trailing qualifiers, then the body or terminating semicolon.
	for !s.atEOF() {
		switch s.peek().Kind {
		case lexer.LBrace:
			s.advance()
			s.skipBalancedBraces()
		case lexer.Semicolon:
			s.advance()
		case lexer.RBrace:
		default:
			s.advance()
			continue
		}
		break
	}
	if generics != nil {
		return wrapGeneric(d, generics)
	}
	return d
}

// parseParams consumes a parenthesised parameter list, the opening paren
// included. Each parameter's location is its first token; its name is the
// last identifier before any default value.
func (s *scanner) parseParams() []*Decl {
	s.expect(lexer.LParen)
	var params []*Decl
	var cur *Decl
	sawDefault := false
	depth := 0
	for !s.atEOF() {
		tok := s.peek()
		switch tok.Kind {
		case lexer.RParen:
			if depth == 0 {
				s.advance()
				if cur != nil {
					params = append(params, cur)
				}
				return params
			}
			depth--
		case lexer.LParen, lexer.LBracket, lexer.OpLess:
			depth++
		case lexer.RBracket, lexer.OpGreater:
			depth--
		case lexer.Comma:
			if depth == 0 {
				if cur != nil {
					params = append(params, cur)
				}
				cur, sawDefault = nil, false
			}
		case lexer.Identifier:
			if cur == nil {
				cur = &Decl{Kind: KindParam, Loc: tok.Loc}
			}
			if depth == 0 && !sawDefault {
				cur.Name, cur.NameLoc = tok.Text, tok.Loc
			}
		case lexer.Operator:
			if depth == 0 && tok.Text == "=" {
				sawDefault = true
			}
			if cur == nil {
				cur = &Decl{Kind: KindParam, Loc: tok.Loc}
			}
		default:
			if cur == nil {
				cur = &Decl{Kind: KindParam, Loc: tok.Loc}
			}
		}
		s.advance()
	}
	return params
}

// parseGenericParams consumes `<...>`, producing type params for lone
// identifiers and value params for `type name` entries.
func (s *scanner) parseGenericParams() []*Decl {
	s.expect(lexer.OpLess)
	var params []*Decl
	var idents []lexer.Token
	var firstLoc lexer.Token
	haveFirst := false
	depth := 0
	flush := func() {
		if !haveFirst {
			return
		}
		p := &Decl{Loc: firstLoc.Loc}
		if len(idents) >= 2 {
			p.Kind = KindGenericValueParam
		} else {
			p.Kind = KindGenericTypeParam
		}
		if len(idents) > 0 {
			last := idents[len(idents)-1]
			p.Name, p.NameLoc = last.Text, last.Loc
		}
		params = append(params, p)
		idents, haveFirst = nil, false
	}
	for !s.atEOF() {
		tok := s.peek()
		switch tok.Kind {
		case lexer.OpGreater:
			if depth == 0 {
				s.advance()
				flush()
				return params
			}
			depth--
		case lexer.OpLess, lexer.LParen, lexer.LBracket:
			depth++
		case lexer.RParen, lexer.RBracket:
			depth--
		case lexer.Comma:
			if depth == 0 {
				flush()
				s.advance()
				continue
			}
		case lexer.Identifier:
			if !haveFirst {
				firstLoc, haveFirst = tok, true
			}
			if depth == 0 {
				idents = append(idents, tok)
			}
		default:
			if !haveFirst {
				firstLoc, haveFirst = tok, true
			}
		}
		s.advance()
	}
	return params
}

func wrapGeneric(inner *Decl, params []*Decl) *Decl {
	return &Decl{
		Kind:    KindGeneric,
		Name:    inner.Name,
		Loc:     inner.Loc,
		NameLoc: inner.NameLoc,
		Inner:   inner,
		Members: params,
	}
}

func (s *scanner) expect(kind lexer.TokenKind) {
	if s.peek().Kind == kind {
		s.advance()
	}
}

func (s *scanner) skipToSemicolon() {
	for !s.atEOF() && s.peek().Kind != lexer.Semicolon && s.peek().Kind != lexer.RBrace {
		s.advance()
	}
	if s.peek().Kind == lexer.Semicolon {
		s.advance()
	}
}

// skipBalancedBraces assumes the opening brace was already consumed.
func (s *scanner) skipBalancedBraces() {
	depth := 1
	for !s.atEOF() && depth > 0 {
		switch s.peek().Kind {
		case lexer.LBrace:
			depth++
		case lexer.RBrace:
			depth--
		}
		s.advance()
	}
}

// skipBalancedParens assumes the opening paren has not been consumed yet.
func (s *scanner) skipBalancedParens() {
	s.expect(lexer.LParen)
	depth := 1
	for !s.atEOF() && depth > 0 {
		switch s.peek().Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			depth--
		}
		s.advance()
	}
}
