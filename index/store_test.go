package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexcodex/docmark/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleDocs() []engine.Doc {
	return []engine.Doc{
		{File: "scene.slang", Name: "ambient", Kind: "var", Line: 2, VisLabel: "public", Text: "Ambient light level.\n"},
		{File: "scene.slang", Name: "Material.albedo", Kind: "var", Line: 5, VisLabel: "public", Text: "Surface color.\n"},
		{File: "scene.slang", Name: "Material.scratch", Kind: "var", Line: 9, VisLabel: "hidden", Text: "Internal buffer.\n"},
	}
}

func TestSaveAndFetchFile(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveFile("scene.slang", HashContent("v1"), sampleDocs())
	require.NoError(t, err)

	rec, err := store.GetFile("scene.slang")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "scene.slang", rec.Path)
	require.Equal(t, 3, rec.DocCount)

	docs, err := store.DocsForFile("scene.slang")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, "ambient", docs[0].Name)
	require.Equal(t, "Material.scratch", docs[2].Name)
}

func TestSaveFileSkipsUnchanged(t *testing.T) {
	store := newTestStore(t)
	hash := HashContent("v1")

	require.NoError(t, store.SaveFile("a.slang", hash, sampleDocs()))
	// Same hash: the save is a no-op even with different docs.
	require.NoError(t, store.SaveFile("a.slang", hash, nil))

	docs, err := store.DocsForFile("a.slang")
	require.NoError(t, err)
	require.Len(t, docs, 3)
}

func TestSaveFileReplacesOnChange(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveFile("a.slang", HashContent("v1"), sampleDocs()))
	require.NoError(t, store.SaveFile("a.slang", HashContent("v2"), sampleDocs()[:1]))

	docs, err := store.DocsForFile("a.slang")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "ambient", docs[0].Name)
}

func TestSaveFileRequiresPath(t *testing.T) {
	store := newTestStore(t)
	require.Error(t, store.SaveFile("", "hash", nil))
}

func TestGetFileMissing(t *testing.T) {
	store := newTestStore(t)
	rec, err := store.GetFile("nope.slang")
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestDeleteFileCascades(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveFile("a.slang", HashContent("v1"), sampleDocs()))
	require.NoError(t, store.DeleteFile("a.slang"))

	rec, err := store.GetFile("a.slang")
	require.NoError(t, err)
	require.Nil(t, rec)

	docs, err := store.DocsForFile("a.slang")
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestSearchDocs(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveFile("scene.slang", HashContent("v1"), sampleDocs()))

	docs, err := store.SearchDocs(DocQuery{NamePattern: "Material.%"})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	docs, err = store.SearchDocs(DocQuery{NamePattern: "%", Visibilities: []string{"public"}})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	docs, err = store.SearchDocs(DocQuery{NamePattern: "%", Kinds: []string{"func"}})
	require.NoError(t, err)
	require.Empty(t, docs)

	docs, err = store.SearchDocs(DocQuery{NamePattern: "%", Limit: 1})
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestDocAtLine(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveFile("scene.slang", HashContent("v1"), sampleDocs()))

	doc, err := store.DocAtLine("scene.slang", 5)
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Equal(t, "Material.albedo", doc.Name)

	// Between entries the nearest earlier line wins.
	doc, err = store.DocAtLine("scene.slang", 7)
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Equal(t, "Material.albedo", doc.Name)

	doc, err = store.DocAtLine("scene.slang", 1)
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestGetStats(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveFile("scene.slang", HashContent("v1"), sampleDocs()))

	stats, err := store.GetStats()
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalFiles)
	require.Equal(t, 3, stats.TotalDocs)
	require.Equal(t, 2, stats.DocsByVisibility["public"])
	require.Equal(t, 1, stats.DocsByVisibility["hidden"])
	require.Greater(t, stats.DatabaseSize, int64(0))
}

func TestFileIDStable(t *testing.T) {
	require.Equal(t, FileID("a.slang"), FileID("a.slang"))
	require.NotEqual(t, FileID("a.slang"), FileID("b.slang"))
	require.Len(t, FileID("a.slang"), 16)
}
