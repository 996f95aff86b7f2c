// Package dataloader provides per-request batching of application display
// name lookups. One request that renders several relationship changes issues
// a single cache read and at most one SQL query.
package dataloader

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/apptracker/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type applicationRepo interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Application, error)
}

// nameCache is the optional shared cache in front of the repository.
type nameCache interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]string, error)
	SetMany(ctx context.Context, names map[int64]string) error
}

// Repos holds the sources the loaders read from. Cache may be nil.
type Repos struct {
	Applications applicationRepo
	Cache        nameCache
}

// Loaders contains the per-request loaders. Created per request via NewLoaders.
type Loaders struct {
	AppNameByID *dataloader.Loader[int64, string]
}

// NewLoaders creates a new set of loaders backed by repos. Loaders cache
// results for their whole lifetime, so they must not outlive a request.
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		AppNameByID: dataloader.NewBatchedLoader(
			newAppNamesBatchFn(repos),
			dataloader.WithWait[int64, string](wait),
			dataloader.WithBatchCapacity[int64, string](maxBatch),
		),
	}
}

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves the request's Loaders, building them if Middleware
// deferred construction.
func FromContext(ctx context.Context) (*Loaders, bool) {
	switch v := ctx.Value(loadersKey).(type) {
	case *Loaders:
		return v, v != nil
	case func() *Loaders:
		return v(), true
	}
	return nil, false
}
