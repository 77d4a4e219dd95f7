// Package fs provides the file-backed implementation of urlwatch.URLStore.
// Each source owns one JSON file; the file is the single source of truth
// for that source's "seen" status.
package fs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/urlwatch"
)

// Ensure URLStore implements urlwatch.URLStore at compile time.
var _ urlwatch.URLStore = (*URLStore)(nil)

// storeFile is the persisted JSON shape:
//
//	{
//	  "urls": ["..."],
//	  "metadata": {"created_at": ..., "last_updated": ..., "total_urls": N}
//	}
type storeFile struct {
	URLs     []string `json:"urls"`
	Metadata metadata `json:"metadata"`
}

type metadata struct {
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
	TotalURLs   int       `json:"total_urls"`
}

// URLStore is a durable, deduplicating, append-only record of every URL
// discovered for one source. URLs are stored in discovery order and never
// reordered, edited or deleted.
type URLStore struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	urls        []string
	seen        map[string]bool
	createdAt   time.Time
	lastUpdated time.Time
}

// Option configures a URLStore.
type Option func(*URLStore)

// WithLogger sets the logger used for load/persist events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *URLStore) {
		s.logger = logger
	}
}

// WithClock overrides the time source. This is useful for testing the
// metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *URLStore) {
		s.now = now
	}
}

// NewURLStore opens (or initializes) the store backed by path.
//
// A missing file initializes an empty store with fresh timestamps. An
// unparsable file is logged and reinitialized empty: losing a corrupt
// history is preferred over aborting the whole run. Any other read error
// is returned.
func NewURLStore(path string, opts ...Option) (*URLStore, error) {
	s := &URLStore{
		path:   path,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		seen:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *URLStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("store file not found, starting fresh", "path", s.path)
		s.reset()
		return nil
	}
	if err != nil {
		return urlwatch.Errorf(urlwatch.EINTERNAL, "reading store file %s: %v", s.path, err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		s.logger.Error("store file is corrupt, reinitializing empty", "path", s.path, "err", err)
		s.reset()
		return nil
	}

	s.urls = file.URLs
	s.createdAt = file.Metadata.CreatedAt
	s.lastUpdated = file.Metadata.LastUpdated
	for _, u := range s.urls {
		s.seen[u] = true
	}

	s.logger.Info("loaded store", "path", s.path, "urls", len(s.urls))
	return nil
}

func (s *URLStore) reset() {
	now := s.now()
	s.urls = nil
	s.seen = make(map[string]bool)
	s.createdAt = now
	s.lastUpdated = now
}

// Admit returns the candidates not previously recorded, in first-occurrence
// order, appends them to the store and persists immediately. Candidates are
// normalized (whitespace trimmed, trailing slash stripped) before both
// comparison and storage; blank candidates are dropped. No write occurs
// when nothing is new.
func (s *URLStore) Admit(candidates []string) ([]string, error) {
	var admitted []string
	batch := make(map[string]bool)

	for _, raw := range candidates {
		u := urlwatch.NormalizeURL(raw)
		if u == "" {
			continue
		}
		if s.seen[u] || batch[u] {
			continue
		}
		batch[u] = true
		admitted = append(admitted, u)
	}

	if len(admitted) == 0 {
		s.logger.Info("no new URLs to add", "path", s.path)
		return nil, nil
	}

	s.urls = append(s.urls, admitted...)
	for _, u := range admitted {
		s.seen[u] = true
	}
	s.lastUpdated = s.now()

	if err := s.persist(); err != nil {
		return nil, err
	}

	s.logger.Info("added new URLs to store", "path", s.path, "new", len(admitted), "total", len(s.urls))
	return admitted, nil
}

// persist rewrites the whole file. The in-memory state is fully built
// before any byte is written, and the write goes through a temp file
// renamed into place so a crash cannot leave a truncated store behind.
func (s *URLStore) persist() error {
	file := storeFile{
		URLs: s.urls,
		Metadata: metadata{
			CreatedAt:   s.createdAt,
			LastUpdated: s.lastUpdated,
			TotalURLs:   len(s.urls),
		},
	}
	if file.URLs == nil {
		file.URLs = []string{}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return urlwatch.Errorf(urlwatch.EINTERNAL, "creating temp store file for %s: %v", s.path, err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&file); err != nil {
		tmp.Close()
		return urlwatch.Errorf(urlwatch.EINTERNAL, "writing store file %s: %v", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return urlwatch.Errorf(urlwatch.EINTERNAL, "closing store file %s: %v", s.path, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return urlwatch.Errorf(urlwatch.EINTERNAL, "replacing store file %s: %v", s.path, err)
	}
	return nil
}

// Stats returns the store's totals and timestamps.
func (s *URLStore) Stats() urlwatch.StoreStats {
	return urlwatch.StoreStats{
		TotalURLs:   len(s.urls),
		CreatedAt:   s.createdAt,
		LastUpdated: s.lastUpdated,
	}
}
