package middleware

import (
	"context"

	"karangjaladri.id/mangrove-web/internal/ui"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyHTMX    ctxKey = "htmx"
	ctxKeySession ctxKey = "session"
	ctxKeyCSRF    ctxKey = "csrf"
)

// Visitor is the resolved session for the current request.
type Visitor struct {
	ID    string
	State *ui.State
	// New is true when the state was created by this request.
	New bool
}

// WithVisitor stores v in ctx.
func WithVisitor(ctx context.Context, v Visitor) context.Context {
	return context.WithValue(ctx, ctxKeySession, v)
}

// VisitorFromContext returns the visitor attached by Session.
func VisitorFromContext(ctx context.Context) (Visitor, bool) {
	v, ok := ctx.Value(ctxKeySession).(Visitor)
	return v, ok && v.State != nil
}

// CSRFToken returns the token issued for the current request.
func CSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCSRF).(string)
	return v
}

func withCSRF(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyCSRF, token)
}
