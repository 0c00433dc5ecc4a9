package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddFileAssignsDisjointRanges(t *testing.T) {
	mgr := NewManager()
	a := mgr.AddFile("a.slang", "hello\n")
	b := mgr.AddFile("b.slang", "world\n")

	require.True(t, a.Base().IsValid())
	require.Greater(t, b.Base(), a.Base()+Loc(len(a.Content)))
	require.Len(t, mgr.Files(), 2)
}

func TestFileForLoc(t *testing.T) {
	mgr := NewManager()
	a := mgr.AddFile("a.slang", "hello\n")
	b := mgr.AddFile("b.slang", "world\n")

	got, err := mgr.FileForLoc(a.LocForOffset(3))
	require.NoError(t, err)
	require.Same(t, a, got)

	got, err = mgr.FileForLoc(b.LocForOffset(0))
	require.NoError(t, err)
	require.Same(t, b, got)

	_, err = mgr.FileForLoc(b.LocForOffset(len(b.Content)) + 10)
	require.Error(t, err)

	_, err = mgr.FileForLoc(0)
	require.Error(t, err)
}

func TestOffsetRoundTrip(t *testing.T) {
	mgr := NewManager()
	mgr.AddFile("pad.slang", "padding\n")
	f := mgr.AddFile("f.slang", "0123456789")
	for off := 0; off <= len(f.Content); off++ {
		require.Equal(t, off, f.Offset(f.LocForOffset(off)))
	}
}

func TestLineIndexForOffset(t *testing.T) {
	mgr := NewManager()
	f := mgr.AddFile("f.slang", "ab\ncd\n\nef")

	cases := []struct {
		off  int
		line int
	}{
		{0, 0}, {1, 0}, {2, 0},
		{3, 1}, {5, 1},
		{6, 2},
		{7, 3}, {8, 3},
		{9, 3}, // end of file resolves to the last line
		{-1, -1},
		{100, -1},
	}
	for _, tc := range cases {
		if got := f.LineIndexForOffset(tc.off); got != tc.line {
			t.Fatalf("LineIndexForOffset(%d) = %d, want %d", tc.off, got, tc.line)
		}
	}
}

func TestLineStart(t *testing.T) {
	mgr := NewManager()
	f := mgr.AddFile("f.slang", "ab\ncd\n\nef")
	require.Equal(t, 4, f.NumLines())
	require.Equal(t, 0, f.LineStart(0))
	require.Equal(t, 3, f.LineStart(1))
	require.Equal(t, 6, f.LineStart(2))
	require.Equal(t, 7, f.LineStart(3))
	require.Equal(t, -1, f.LineStart(4))
	require.Equal(t, -1, f.LineStart(-1))
}

func TestIsOffsetOnLine(t *testing.T) {
	mgr := NewManager()
	f := mgr.AddFile("f.slang", "ab\ncd\n")
	require.True(t, f.IsOffsetOnLine(0, 0))
	require.True(t, f.IsOffsetOnLine(4, 1))
	require.False(t, f.IsOffsetOnLine(4, 0))
}

func TestLineContainingOffset(t *testing.T) {
	mgr := NewManager()
	f := mgr.AddFile("f.slang", "first\nsecond\nthird")
	require.Equal(t, "first", f.LineContainingOffset(2))
	require.Equal(t, "second", f.LineContainingOffset(6))
	require.Equal(t, "third", f.LineContainingOffset(len(f.Content)-1))
	require.Equal(t, "", f.LineContainingOffset(-5))
}
