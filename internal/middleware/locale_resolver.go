package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/i18n"
	"karangjaladri.id/mangrove-web/internal/observability"
)

// Locale applies an explicit ?hl= override to the visitor's state. A new
// visitor starts in the primary language unless negotiate is set, in which
// case Accept-Language picks the starting language. It must run after Session.
func Locale(bundle *i18n.Bundle, negotiate bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, ok := VisitorFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if hl := r.URL.Query().Get("hl"); hl != "" {
				if err := v.State.SetLanguage(hl); err != nil {
					observability.FromContext(r.Context()).Debug("ignoring hl override", zap.String("hl", hl), zap.Error(err))
				}
			} else if v.New && negotiate {
				_ = v.State.SetLanguage(bundle.Negotiate(r.Header.Get("Accept-Language")))
			}
			w.Header().Set("Content-Language", v.State.Language())
			next.ServeHTTP(w, r)
		})
	}
}

// Lang returns the visitor's language, or the bundle's primary language when
// no visitor is attached.
func Lang(r *http.Request, bundle *i18n.Bundle) string {
	if v, ok := VisitorFromContext(r.Context()); ok {
		return v.State.Language()
	}
	return bundle.Primary()
}
