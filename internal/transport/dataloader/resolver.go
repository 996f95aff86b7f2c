package dataloader

import (
	"context"
	"errors"
	"slices"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// NameResolver maps application ids to display names through the request's
// loaders. Outside a request (no loaders in the context) it uses a fresh,
// short-lived set.
type NameResolver struct {
	repos *Repos
}

// NewNameResolver creates a resolver over repos.
func NewNameResolver(repos *Repos) *NameResolver {
	return &NameResolver{repos: repos}
}

// ResolveNames returns the display names of the ids that exist. Unknown ids
// are absent from the result; any other failure is returned.
func (r *NameResolver) ResolveNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	loaders, ok := FromContext(ctx)
	if !ok {
		loaders = NewLoaders(r.repos)
	}

	keys := slices.Compact(slices.Sorted(slices.Values(ids)))
	names, errs := loaders.AppNameByID.LoadMany(ctx, keys)()
	for i, id := range keys {
		var err error
		if i < len(errs) {
			err = errs[i]
		}
		switch {
		case err == nil:
			out[id] = names[i]
		case errors.Is(err, domain.ErrNotFound):
			// unknown id, left out
		default:
			return nil, err
		}
	}
	return out, nil
}
