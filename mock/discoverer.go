package mock

import (
	"context"

	"github.com/fwojciec/urlwatch"
)

var _ urlwatch.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of urlwatch.Discoverer.
type Discoverer struct {
	NameFn     func() string
	DiscoverFn func(ctx context.Context) []string
	CloseFn    func() error
}

func (d *Discoverer) Name() string {
	return d.NameFn()
}

func (d *Discoverer) Discover(ctx context.Context) []string {
	return d.DiscoverFn(ctx)
}

func (d *Discoverer) Close() error {
	return d.CloseFn()
}
