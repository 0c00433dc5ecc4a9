// Package engine ties the lexer, declaration scanner and markup extractor
// into a per-file documentation pipeline shared by the CLI, the index
// writer and the LSP server.
package engine

import (
	"fmt"
	"os"

	"github.com/lexcodex/docmark/decl"
	"github.com/lexcodex/docmark/lexer"
	"github.com/lexcodex/docmark/markup"
	"github.com/lexcodex/docmark/source"
)

// Doc is one extracted documentation record.
type Doc struct {
	File       string            `json:"file"`
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Line       int               `json:"line"`
	Visibility markup.Visibility `json:"-"`
	VisLabel   string            `json:"visibility"`
	Text       string            `json:"text"`
}

// Engine extracts documentation from source files.
type Engine struct {
	// Sink receives ambiguity and precondition diagnostics; nil discards.
	Sink markup.Sink
	// IncludeUndocumented keeps declarations whose extracted text is empty.
	IncludeUndocumented bool
}

// ExtractFile reads path and extracts its documentation.
func (e *Engine) ExtractFile(path string) ([]Doc, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.ExtractSource(path, string(content))
}

// ExtractSource extracts documentation from in-memory contents registered
// under name.
func (e *Engine) ExtractSource(name, content string) ([]Doc, error) {
	mgr := source.NewManager()
	file := mgr.AddFile(name, content)

	toks := lexer.Tokenize(file, lexer.Options{})
	module := decl.Scan(toks)

	registry, err := markup.ExtractModule(module, mgr, e.Sink)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	qualified := qualifiedNames(module)

	var docs []Doc
	for _, entry := range registry.Entries() {
		// A generic wrapper shares its anchor with the declaration it wraps;
		// reporting both would duplicate every generic's documentation.
		if entry.Decl.Kind == decl.KindGeneric {
			continue
		}
		if entry.Text == "" && !e.IncludeUndocumented {
			continue
		}
		loc, _ := entry.Decl.AnchorLoc()
		line := file.LineIndexForOffset(file.Offset(loc)) + 1
		name := qualified[entry.Decl]
		if name == "" {
			name = entry.Decl.Name
		}
		docs = append(docs, Doc{
			File:       file.Name,
			Name:       name,
			Kind:       entry.Decl.Kind.String(),
			Line:       line,
			Visibility: entry.Visibility,
			VisLabel:   entry.Visibility.String(),
			Text:       entry.Text,
		})
	}
	return docs, nil
}

// qualifiedNames walks the tree building dotted name paths; anonymous
// ancestors contribute nothing.
func qualifiedNames(module *decl.Decl) map[*decl.Decl]string {
	names := make(map[*decl.Decl]string)
	var walk func(d *decl.Decl, prefix string)
	walk = func(d *decl.Decl, prefix string) {
		name := d.Name
		if name != "" && prefix != "" {
			name = prefix + "." + name
		} else if name == "" {
			name = prefix
		}
		names[d] = name
		if d.Inner != nil {
			walk(d.Inner, prefix)
		}
		for _, child := range d.Members {
			walk(child, name)
		}
	}
	for _, child := range module.Members {
		walk(child, "")
	}
	return names
}
