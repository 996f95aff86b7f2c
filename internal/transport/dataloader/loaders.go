package dataloader

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// newAppNamesBatchFn resolves display names from the cache first and the
// repository for the misses. Ids that do not exist yield domain.ErrNotFound.
// Cache failures are not fatal: the repository answers instead.
func newAppNamesBatchFn(repos *Repos) dataloader.BatchFunc[int64, string] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[string] {
		names := make(map[int64]string, len(keys))
		if repos.Cache != nil {
			if cached, err := repos.Cache.GetMany(ctx, keys); err == nil {
				for id, name := range cached {
					names[id] = name
				}
			}
		}

		var misses []int64
		for _, id := range keys {
			if _, ok := names[id]; !ok {
				misses = append(misses, id)
			}
		}

		if len(misses) > 0 {
			apps, err := repos.Applications.GetByIDs(ctx, misses)
			if err != nil {
				return errorResults[string](len(keys), fmt.Errorf("load application names: %w", err))
			}

			fetched := make(map[int64]string, len(apps))
			for _, app := range apps {
				fetched[app.ID] = app.DisplayName()
				names[app.ID] = app.DisplayName()
			}
			if repos.Cache != nil && len(fetched) > 0 {
				_ = repos.Cache.SetMany(ctx, fetched)
			}
		}

		results := make([]*dataloader.Result[string], len(keys))
		for i, id := range keys {
			if name, ok := names[id]; ok {
				results[i] = &dataloader.Result[string]{Data: name}
			} else {
				results[i] = &dataloader.Result[string]{Error: fmt.Errorf("application %d: %w", id, domain.ErrNotFound)}
			}
		}
		return results
	}
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}
