package markup

import (
	"strings"

	"github.com/lexcodex/docmark/lexer"
	"github.com/lexcodex/docmark/source"
)

// Visibility is the documentation visibility carried by each source line.
type Visibility int

const (
	Public Visibility = iota
	Internal
	Hidden
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Hidden:
		return "hidden"
	}
	return "invalid"
}

// visibilitySentinelPrefix introduces a visibility sentinel line comment,
// distinct from doc markup: //@public: and friends.
const visibilitySentinelPrefix = "//@"

// LineVisibility sweeps a file's comment tokens once and produces the
// per-line visibility table. Sentinels change the state from their own line
// forward; lines before the first sentinel default to Public.
func LineVisibility(file *source.File, toks []lexer.Token) []Visibility {
	out := make([]Visibility, file.NumLines())

	last := Public
	lastLine := 0

	for _, tok := range toks {
		if tok.Kind != lexer.LineComment {
			continue
		}
		if !strings.HasPrefix(tok.Text, visibilitySentinelPrefix) {
			continue
		}
		next := last
		switch strings.TrimSpace(tok.Text[len(visibilitySentinelPrefix):]) {
		case "hidden:", "private:":
			next = Hidden
		case "internal:":
			next = Internal
		case "public:":
			next = Public
		}
		if next == last {
			continue
		}
		line := file.LineIndexForOffset(file.Offset(tok.Loc))
		for i := lastLine; i < line && i < len(out); i++ {
			out[i] = last
		}
		lastLine = line
		last = next
	}

	for i := lastLine; i < len(out); i++ {
		out[i] = last
	}
	return out
}
