package source

import (
	"fmt"
	"sort"
)

// Loc is a position inside the address space of a Manager. Each registered
// file occupies a contiguous, non-overlapping range of Locs, so a single Loc
// identifies both the file and the byte offset within it. The zero value is
// invalid.
type Loc int

// IsValid reports whether the location points into a registered file.
func (l Loc) IsValid() bool { return l > 0 }

// File is one registered source file with its contents held in memory.
type File struct {
	Name    string
	Content string

	base       Loc
	lineStarts []int
}

// Manager owns registered files and resolves Locs back to them.
type Manager struct {
	files []*File
	next  Loc
}

// NewManager returns an empty manager. Loc 0 is reserved as invalid.
func NewManager() *Manager {
	return &Manager{next: 1}
}

// AddFile registers contents under name and returns the file.
func (m *Manager) AddFile(name, content string) *File {
	f := &File{
		Name:    name,
		Content: content,
		base:    m.next,
	}
	f.buildLineStarts()
	m.files = append(m.files, f)
	m.next += Loc(len(content) + 1)
	return f
}

// Files returns the registered files in registration order.
func (m *Manager) Files() []*File { return m.files }

// FileForLoc resolves loc to the file containing it.
func (m *Manager) FileForLoc(loc Loc) (*File, error) {
	for _, f := range m.files {
		if loc >= f.base && loc <= f.base+Loc(len(f.Content)) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("source: loc %d outside any registered file", loc)
}

// Base returns the first Loc of the file.
func (f *File) Base() Loc { return f.base }

// Offset converts loc into a byte offset within the file.
func (f *File) Offset(loc Loc) int { return int(loc - f.base) }

// LocForOffset converts a byte offset within the file into a Loc.
func (f *File) LocForOffset(off int) Loc { return f.base + Loc(off) }

func (f *File) buildLineStarts() {
	f.lineStarts = append(f.lineStarts, 0)
	for i := 0; i < len(f.Content); i++ {
		if f.Content[i] == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
}

// NumLines returns the number of lines in the file. A trailing newline does
// not start a new counted line unless characters follow it; the table still
// records its start so offsets at end-of-file resolve.
func (f *File) NumLines() int { return len(f.lineStarts) }

// LineIndexForOffset returns the zero-based line index containing off, or -1
// when off is outside the file.
func (f *File) LineIndexForOffset(off int) int {
	if off < 0 || off > len(f.Content) {
		return -1
	}
	// The rightmost line start <= off.
	i := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > off })
	return i - 1
}

// LineStart returns the byte offset where the given line begins.
func (f *File) LineStart(line int) int {
	if line < 0 || line >= len(f.lineStarts) {
		return -1
	}
	return f.lineStarts[line]
}

// IsOffsetOnLine reports whether off falls on the given zero-based line.
func (f *File) IsOffsetOnLine(off, line int) bool {
	return f.LineIndexForOffset(off) == line
}

// LineContainingOffset returns the raw text of the line containing off,
// without its trailing newline.
func (f *File) LineContainingOffset(off int) string {
	line := f.LineIndexForOffset(off)
	if line < 0 {
		return ""
	}
	start := f.lineStarts[line]
	end := len(f.Content)
	if line+1 < len(f.lineStarts) {
		end = f.lineStarts[line+1] - 1
	}
	return f.Content[start:end]
}
