package dataloader

import (
	"context"
	"net/http"
	"sync"
)

// Middleware gives every request its own loader set. The set is built on the
// first FromContext call, so requests that never resolve names skip it.
func Middleware(repos *Repos) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lazy := sync.OnceValue(func() *Loaders { return NewLoaders(repos) })
			ctx := context.WithValue(r.Context(), loadersKey, lazy)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
