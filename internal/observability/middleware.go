package observability

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/httpx"
)

const fieldsKey contextKey = "observability/fields"

type fieldSet struct {
	mu     sync.Mutex
	fields []zap.Field
}

// Annotate adds fields to the completion line of the current request. Inner
// middleware uses it for values resolved after the logger was set up.
func Annotate(ctx context.Context, fields ...zap.Field) {
	if fs, ok := ctx.Value(fieldsKey).(*fieldSet); ok {
		fs.mu.Lock()
		fs.fields = append(fs.fields, fields...)
		fs.mu.Unlock()
	}
}

// RequestLogger stores a request-scoped logger on the context and logs one
// line per request when it completes.
func RequestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = noopLogger
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := base.With(
				zap.String("request_id", middleware.GetReqID(ctx)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("trace_id", TraceID(ctx)),
				zap.String("remote_ip", remoteIP(r)),
				zap.Bool("htmx", httpx.IsHTMX(r)),
			)
			fs := &fieldSet{}
			ctx = context.WithValue(WithLogger(ctx, logger), fieldsKey, fs)
			r = r.WithContext(ctx)

			rec := NewRecorder(w)
			start := time.Now()
			defer func() {
				status := rec.Status()
				route := routePattern(r)

				if span := trace.SpanFromContext(ctx); span.IsRecording() {
					span.SetAttributes(
						attribute.String("http.route", route),
						attribute.Int("http.response.status_code", status),
					)
					if status >= http.StatusInternalServerError {
						span.SetStatus(codes.Error, http.StatusText(status))
					}
				}

				fs.mu.Lock()
				fields := append([]zap.Field{
					zap.String("route", route),
					zap.Int("status", status),
					zap.Duration("latency", time.Since(start)),
					zap.Int64("bytes", rec.BytesWritten()),
				}, fs.fields...)
				fs.mu.Unlock()

				switch {
				case status >= http.StatusInternalServerError:
					logger.Error("request completed", fields...)
				case status >= http.StatusBadRequest:
					logger.Warn("request completed", fields...)
				default:
					logger.Info("request completed", fields...)
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

// Recoverer turns panics into a logged 500.
func Recoverer(fallback *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger := FromContext(r.Context())
				if logger == noopLogger && fallback != nil {
					logger = fallback
				}
				logger.Error("panic recovered", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
				httpx.Internal(w, r)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Recorder captures status and size while staying usable for websocket
// upgrades and streaming.
type Recorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

// NewRecorder wraps w.
func NewRecorder(w http.ResponseWriter) *Recorder {
	return &Recorder{ResponseWriter: w}
}

func (r *Recorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *Recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

// Status returns the written status, 200 if none was written.
func (r *Recorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// BytesWritten returns the body size.
func (r *Recorder) BytesWritten() int64 { return r.bytes }

func (r *Recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *Recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("observability: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	r.wroteHeader = true
	return h.Hijack()
}

func (r *Recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
