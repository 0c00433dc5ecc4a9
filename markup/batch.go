package markup

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lexcodex/docmark/lexer"
	"github.com/lexcodex/docmark/source"
)

// SearchInput is one declaration to find documentation for: where it is and
// how to search around it.
type SearchInput struct {
	Loc   source.Loc
	Style SearchStyle
}

// SearchOutput is the per-declaration result. Outputs are returned indexed
// by the caller's input order; InputIndex repeats that index for callers
// that re-sort.
type SearchOutput struct {
	InputIndex int
	FileIndex  int // index into the batch's file list, -1 when unresolved
	Text       string
	Visibility Visibility
}

// Extractor runs documentation searches in file-grouped batches. The zero
// value is usable; Sink receives ambiguity and precondition diagnostics.
type Extractor struct {
	Sink Sink
}

// batchEntry is the orchestrator's working record for one input.
type batchEntry struct {
	inputIndex int
	fileIndex  int
	offset     int
	style      SearchStyle
}

// Extract resolves every input location, tokenizes each distinct file once
// in comment-retaining mode, runs the per-declaration search, and returns
// outputs such that out[i] corresponds to inputs[i]. The returned file list
// is indexed by SearchOutput.FileIndex.
//
// An input location that resolves to no registered file is a contract
// violation and fails the whole batch.
func (e *Extractor) Extract(inputs []SearchInput, mgr *source.Manager) ([]SearchOutput, []*source.File, error) {
	entries := make([]batchEntry, len(inputs))
	var files []*source.File
	fileIndexByFile := map[*source.File]int{}

	for i, input := range inputs {
		file, err := mgr.FileForLoc(input.Loc)
		if err != nil {
			return nil, nil, fmt.Errorf("markup: input %d: %w", i, err)
		}
		idx, ok := fileIndexByFile[file]
		if !ok {
			idx = len(files)
			files = append(files, file)
			fileIndexByFile[file] = idx
		}
		entries[i] = batchEntry{
			inputIndex: i,
			fileIndex:  idx,
			offset:     file.Offset(input.Loc),
			style:      input.Style,
		}
	}

	// Process in (file, offset) order so each file is visited exactly once
	// and token lookups walk forward.
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].fileIndex != entries[b].fileIndex {
			return entries[a].fileIndex < entries[b].fileIndex
		}
		return entries[a].offset < entries[b].offset
	})

	out := make([]SearchOutput, len(inputs))

	// Per-file scratch, reset between files.
	var (
		curFile    *source.File
		tokens     []lexer.Token
		visibility []Visibility
	)
	curIndex := -1

	for _, entry := range entries {
		dst := &out[entry.inputIndex]
		dst.InputIndex = entry.inputIndex
		dst.FileIndex = -1
		dst.Visibility = Public

		if entry.style == StyleNone {
			continue
		}

		if curIndex != entry.fileIndex {
			curIndex = entry.fileIndex
			curFile = files[curIndex]
			tokens = lexer.Tokenize(curFile, lexer.Options{RetainComments: true})
			visibility = LineVisibility(curFile, tokens)
		}
		dst.FileIndex = curIndex

		lineIndex := curFile.LineIndexForOffset(entry.offset)
		if lineIndex >= 0 && lineIndex < len(visibility) {
			dst.Visibility = visibility[lineIndex]
		}

		tokenIndex := findTokenIndex(tokens, curFile.LocForOffset(entry.offset))
		if tokenIndex < 0 || lineIndex < 0 {
			continue
		}

		info := &findInfo{
			file:       curFile,
			tokens:     tokens,
			tokenIndex: tokenIndex,
			lineIndex:  lineIndex,
		}
		found, err := findMarkupForStyle(info, entry.style, e.Sink)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		text, err := extractText(info, found)
		if err != nil {
			return nil, nil, err
		}
		dst.Text = text
	}

	return out, files, nil
}

// findTokenIndex binary-searches the offset-monotonic token sequence for an
// exact location match.
func findTokenIndex(toks []lexer.Token, loc source.Loc) int {
	lo, hi := 0, len(toks)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case toks[mid].Loc == loc:
			return mid
		case toks[mid].Loc < loc:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return -1
}
