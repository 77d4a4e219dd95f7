package mock

import "github.com/fwojciec/urlwatch"

var _ urlwatch.URLStore = (*URLStore)(nil)

// URLStore is a mock implementation of urlwatch.URLStore.
type URLStore struct {
	AdmitFn func(candidates []string) ([]string, error)
	StatsFn func() urlwatch.StoreStats
}

func (s *URLStore) Admit(candidates []string) ([]string, error) {
	return s.AdmitFn(candidates)
}

func (s *URLStore) Stats() urlwatch.StoreStats {
	return s.StatsFn()
}
