package middleware

import (
	"net/http"

	"karangjaladri.id/mangrove-web/internal/httpx"
	"karangjaladri.id/mangrove-web/internal/session"
)

// CSRFHeader carries the anti-forgery token on unsafe requests. The page
// sets it for every htmx request through hx-headers.
const CSRFHeader = "X-CSRF-Token"

// CSRF rejects unsafe requests whose token does not match the visitor's
// session. It must run after Session.
func CSRF(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			v, ok := VisitorFromContext(r.Context())
			if !ok || !codec.VerifyCSRF(v.ID, r.Header.Get(CSRFHeader)) {
				httpx.WriteError(w, r, httpx.NewError("forbidden", "invalid CSRF token", http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
