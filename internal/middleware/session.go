package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/observability"
	"karangjaladri.id/mangrove-web/internal/session"
)

// Session resolves the visitor from the signed cookie, issuing a new id when
// the cookie is absent or invalid, and attaches the visitor's state.
func Session(store *session.Store, codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := codec.Read(r)
			if err != nil {
				tok = codec.Issue(time.Now())
				codec.Write(w, tok)
			}
			st, created := store.GetOrCreate(tok.ID)

			ctx := r.Context()
			observability.Annotate(ctx, zap.String("session_id", tok.ID), zap.Bool("session_new", created))
			ctx = WithVisitor(ctx, Visitor{ID: tok.ID, State: st, New: created})
			ctx = withCSRF(ctx, codec.CSRFToken(tok.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
