package httpapi

import (
	"context"
	"net/http"
)

type contextKey string

const routeContextKey contextKey = "route_pattern"

type routeHolder struct {
	pattern string
}

func withRouteHolder(ctx context.Context) (context.Context, *routeHolder) {
	holder := &routeHolder{}
	return context.WithValue(ctx, routeContextKey, holder), holder
}

func routeHolderFromContext(ctx context.Context) (*routeHolder, bool) {
	holder, ok := ctx.Value(routeContextKey).(*routeHolder)
	return holder, ok
}

// captureRoute records the matched mux pattern so outer middleware can label
// requests by route instead of raw path.
func captureRoute(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if holder, ok := routeHolderFromContext(r.Context()); ok {
			_, holder.pattern = mux.Handler(r)
		}
		mux.ServeHTTP(w, r)
	})
}
