package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/urlwatch/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func readStoreFile(t *testing.T, path string) (urls []string, meta map[string]any) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var file struct {
		URLs     []string       `json:"urls"`
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &file))
	return file.URLs, file.Metadata
}

func TestURLStore_Admit(t *testing.T) {
	t.Parallel()

	t.Run("first admission persists and returns the new URLs", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)

		added, err := store.Admit([]string{"https://example.com/a", "https://example.com/b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, added)

		urls, meta := readStoreFile(t, path)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, urls)
		assert.EqualValues(t, 2, meta["total_urls"])
	})

	t.Run("admit is idempotent", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)

		batch := []string{"https://example.com/a", "https://example.com/b"}

		added, err := store.Admit(batch)
		require.NoError(t, err)
		assert.Len(t, added, 2)

		mtimeBefore := fileModTime(t, path)

		added, err = store.Admit(batch)
		require.NoError(t, err)
		assert.Empty(t, added)
		// No write occurred on the no-op admission.
		assert.Equal(t, mtimeBefore, fileModTime(t, path))
	})

	t.Run("preserves first-occurrence order and collapses in-batch repeats", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)

		added, err := store.Admit([]string{"b", "a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, added)

		urls, _ := readStoreFile(t, path)
		assert.Equal(t, []string{"b", "a", "c"}, urls)
	})

	t.Run("normalizes before comparison and storage", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)

		added, err := store.Admit([]string{"https://example.com/a/"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, added)

		// The slash and whitespace variants are the same record.
		added, err = store.Admit([]string{" https://example.com/a "})
		require.NoError(t, err)
		assert.Empty(t, added)
	})

	t.Run("drops blank candidates", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)

		added, err := store.Admit([]string{"", "   ", "https://example.com/a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, added)
	})

	t.Run("appends across admissions preserving history order", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)

		_, err = store.Admit([]string{"https://example.com/a"})
		require.NoError(t, err)
		added, err := store.Admit([]string{"https://example.com/a", "https://example.com/b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/b"}, added)

		urls, _ := readStoreFile(t, path)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, urls)
	})

	t.Run("write failure surfaces as an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)

		// Occupy the target path with a directory so the store file
		// cannot be moved into place.
		require.NoError(t, os.Mkdir(path, 0o755))

		_, err = store.Admit([]string{"https://example.com/a"})
		require.Error(t, err)
	})
}

func TestURLStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing file starts empty with fresh timestamps", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path, fs.WithClock(fixedClock(now)))
		require.NoError(t, err)

		stats := store.Stats()
		assert.Zero(t, stats.TotalURLs)
		assert.Equal(t, now, stats.CreatedAt)
		assert.Equal(t, now, stats.LastUpdated)

		// Nothing is written until the first admission.
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("reloads previously admitted URLs", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)
		_, err = store.Admit([]string{"https://example.com/a", "https://example.com/b"})
		require.NoError(t, err)

		reloaded, err := fs.NewURLStore(path)
		require.NoError(t, err)
		assert.Equal(t, 2, reloaded.Stats().TotalURLs)

		added, err := reloaded.Admit([]string{"https://example.com/a", "https://example.com/c"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/c"}, added)
	})

	t.Run("corrupt file reinitializes empty and is overwritten on next admit", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		store, err := fs.NewURLStore(path)
		require.NoError(t, err)
		assert.Zero(t, store.Stats().TotalURLs)

		added, err := store.Admit([]string{"https://example.com/a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, added)

		urls, _ := readStoreFile(t, path)
		assert.Equal(t, []string{"https://example.com/a"}, urls)
	})

	t.Run("metadata timestamps survive a round trip", func(t *testing.T) {
		t.Parallel()

		created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
		updated := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path, fs.WithClock(fixedClock(created)))
		require.NoError(t, err)
		_, err = store.Admit([]string{"https://example.com/a"})
		require.NoError(t, err)

		store2, err := fs.NewURLStore(path, fs.WithClock(fixedClock(updated)))
		require.NoError(t, err)

		stats := store2.Stats()
		assert.Equal(t, created, stats.CreatedAt.UTC())
		assert.Equal(t, created, stats.LastUpdated.UTC())

		_, err = store2.Admit([]string{"https://example.com/b"})
		require.NoError(t, err)
		stats = store2.Stats()
		assert.Equal(t, created, stats.CreatedAt.UTC())
		assert.Equal(t, updated, stats.LastUpdated.UTC())
	})

	t.Run("keeps non-ASCII URLs literal in the file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "source.json")
		store, err := fs.NewURLStore(path)
		require.NoError(t, err)

		_, err = store.Admit([]string{"https://example.com/artículo?q=a&b=c"})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "artículo?q=a&b=c")
	})
}

func fileModTime(t *testing.T, path string) time.Time {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}
