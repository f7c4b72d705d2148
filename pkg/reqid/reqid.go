// Package reqid tags every HTTP request with a correlation ID.
//
// The ID travels in the X-Request-ID header and in the request context,
// so log lines written anywhere below the middleware can carry it.
package reqid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// Header carries the request ID between services.
const Header = "X-Request-ID"

type ctxKey struct{}

// FromCtx returns the request ID stored in ctx, or "" when the request
// never passed through Middleware().
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware assigns each request an ID. An X-Request-ID sent by the
// client (or an upstream proxy) wins; otherwise a random one is minted.
// The ID is echoed back in the response header.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" {
				id = newID()
			}
			w.Header().Set(Header, id)

			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))
			next.ServeHTTP(w, r)
		})
	}
}

func newID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
