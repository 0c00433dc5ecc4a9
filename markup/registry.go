package markup

import (
	"github.com/lexcodex/docmark/decl"
	"github.com/lexcodex/docmark/source"
)

// Entry is the documentation recorded for one declaration.
type Entry struct {
	Decl       *decl.Decl
	Text       string
	Visibility Visibility
}

// Registry collects documentation entries keyed by declaration identity,
// preserving source order.
type Registry struct {
	entries map[*decl.Decl]*Entry
	order   []*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[*decl.Decl]*Entry)}
}

// Add records an entry for d, replacing any previous one.
func (r *Registry) Add(d *decl.Decl, text string, vis Visibility) *Entry {
	if existing, ok := r.entries[d]; ok {
		existing.Text = text
		existing.Visibility = vis
		return existing
	}
	entry := &Entry{Decl: d, Text: text, Visibility: vis}
	r.entries[d] = entry
	r.order = append(r.order, entry)
	return entry
}

// Lookup returns the entry for d, if any.
func (r *Registry) Lookup(d *decl.Decl) (*Entry, bool) {
	entry, ok := r.entries[d]
	return entry, ok
}

// Entries returns all entries in insertion order.
func (r *Registry) Entries() []*Entry { return r.order }

// ExtractModule gathers the documentable declarations under module, runs a
// batch extraction, and populates a registry. Declarations without a
// resolvable location are reported to sink and skipped; declarations whose
// kind gives no search strategy get no entry.
func ExtractModule(module *decl.Decl, mgr *source.Manager, sink Sink) (*Registry, error) {
	decls, missing := decl.Collect(module)
	for _, d := range missing {
		report(sink, Diagnostic{
			Message: "declaration " + d.Name + " has no source location; documentation cannot be associated",
		})
	}

	inputs := make([]SearchInput, len(decls))
	for i, d := range decls {
		loc, _ := d.AnchorLoc()
		inputs[i] = SearchInput{Loc: loc, Style: StyleForDecl(d)}
	}

	extractor := &Extractor{Sink: sink}
	outputs, _, err := extractor.Extract(inputs, mgr)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()
	for i, d := range decls {
		if inputs[i].Style == StyleNone {
			continue
		}
		registry.Add(d, outputs[i].Text, outputs[i].Visibility)
	}
	return registry, nil
}
