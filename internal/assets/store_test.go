package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stage(t *testing.T, name, content string) Upload {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "staged-"+name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return Upload{TempPath: path, OriginalName: name, Field: "images"}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func TestIngestRenamesToBase(t *testing.T) {
	s := newStore(t)
	name, err := s.Ingest(stage(t, "IMG_1234.PNG", "x"), "super-glue-2000")
	require.NoError(t, err)
	assert.Equal(t, "super-glue-2000.png", name)
	assert.True(t, s.Exists(name))
}

func TestIngestOverwritesExisting(t *testing.T) {
	s := newStore(t)
	_, err := s.Ingest(stage(t, "a.png", "old"), "promo")
	require.NoError(t, err)
	name, err := s.Ingest(stage(t, "b.png", "new"), "promo")
	require.NoError(t, err)
	data, err := os.ReadFile(s.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestIngestEmptyBaseUsesOriginalName(t *testing.T) {
	s := newStore(t)
	name, err := s.Ingest(stage(t, "Promo Banner.JPG", "x"), "")
	require.NoError(t, err)
	assert.Equal(t, "promo-banner.jpg", name)
}

func TestIngestManySuffixes(t *testing.T) {
	s := newStore(t)
	uploads := []Upload{
		stage(t, "first.png", "1"),
		stage(t, "second.jpg", "2"),
	}
	names, err := s.IngestMany(uploads, "spring-sale", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"spring-sale-1.png", "spring-sale-2.jpg"}, names)
	for _, n := range names {
		assert.True(t, s.Exists(n))
	}
}

func TestIngestManySingleNoSuffix(t *testing.T) {
	s := newStore(t)
	names, err := s.IngestMany([]Upload{stage(t, "one.png", "1")}, "spring-sale", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"spring-sale.png"}, names)
}

func TestIngestManyContinuesPastTakenSuffixes(t *testing.T) {
	s := newStore(t)
	first, err := s.IngestMany([]Upload{
		stage(t, "a.png", "old-1"),
		stage(t, "b.png", "old-2"),
	}, "bond-max", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"bond-max-1.png", "bond-max-2.png"}, first)

	more, err := s.IngestMany([]Upload{
		stage(t, "c.png", "new-1"),
		stage(t, "d.png", "new-2"),
	}, "bond-max", first)
	require.NoError(t, err)
	assert.Equal(t, []string{"bond-max-3.png", "bond-max-4.png"}, more)

	// the referenced originals were not overwritten
	data, err := os.ReadFile(s.Path("bond-max-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "old-1", string(data))
	data, err = os.ReadFile(s.Path("bond-max-2.png"))
	require.NoError(t, err)
	assert.Equal(t, "old-2", string(data))
}

func TestIngestManySuffixesSingleUploadWhenNameTaken(t *testing.T) {
	s := newStore(t)
	name, err := s.Ingest(stage(t, "a.png", "old"), "bond-max")
	require.NoError(t, err)
	require.Equal(t, "bond-max.png", name)

	more, err := s.IngestMany([]Upload{stage(t, "b.png", "new")}, "bond-max", []string{name})
	require.NoError(t, err)
	assert.Equal(t, []string{"bond-max-1.png"}, more)

	data, err := os.ReadFile(s.Path("bond-max.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestRemoveIdempotent(t *testing.T) {
	s := newStore(t)
	name, err := s.Ingest(stage(t, "a.png", "x"), "gone")
	require.NoError(t, err)
	assert.True(t, s.Remove(name).Ok())
	assert.False(t, s.Exists(name))
	// second delete is a no-op, not a failure
	assert.True(t, s.Remove(name).Ok())
}

func TestRemoveAllReportsFailures(t *testing.T) {
	s := newStore(t)
	a, err := s.Ingest(stage(t, "a.png", "x"), "keep-a")
	require.NoError(t, err)
	b, err := s.Ingest(stage(t, "b.png", "x"), "keep-b")
	require.NoError(t, err)
	result := s.RemoveAll([]string{a, b, "never-existed.png"})
	assert.True(t, result.Ok())
	assert.False(t, s.Exists(a))
	assert.False(t, s.Exists(b))
}
