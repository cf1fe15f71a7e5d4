package middleware

import "net/http"

// VaryLocale marks dynamic responses as depending on the visitor cookie and
// the negotiated language.
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Cookie")
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
