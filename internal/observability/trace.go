package observability

import (
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const cloudTraceHeader = "X-Cloud-Trace-Context"

var tracer = otel.Tracer("karangjaladri.id/mangrove-web/internal/observability")

// TraceMiddleware starts a server span per request, continuing a trace passed
// in X-Cloud-Trace-Context when present.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if remote, ok := parseCloudTrace(r.Header.Get(cloudTraceHeader)); ok {
			ctx = trace.ContextWithRemoteSpanContext(ctx, remote)
		}

		ctx, span := tracer.Start(ctx, r.Method+" "+pathOrRoot(r),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", pathOrRoot(r)),
				attribute.Bool("htmx", r.Header.Get("HX-Request") == "true"),
			),
		)
		defer span.End()

		sc := span.SpanContext()
		info := TraceInfo{Sampled: sc.IsSampled()}
		if sc.HasTraceID() {
			info.TraceID = sc.TraceID().String()
		}
		if sc.HasSpanID() {
			info.SpanID = sc.SpanID().String()
		}
		if info.TraceID != "" && info.SpanID != "" {
			w.Header().Set(cloudTraceHeader, formatCloudTrace(info))
		}
		next.ServeHTTP(w, r.WithContext(WithTrace(ctx, info)))
	})
}

// parseCloudTrace reads TRACE_ID/SPAN_ID;o=OPTIONS with a hex span id.
func parseCloudTrace(header string) (trace.SpanContext, bool) {
	header = strings.TrimSpace(header)
	traceHex, rest, ok := strings.Cut(header, "/")
	if !ok || len(traceHex) != 32 {
		return trace.SpanContext{}, false
	}
	traceID, err := trace.TraceIDFromHex(traceHex)
	if err != nil {
		return trace.SpanContext{}, false
	}
	spanHex, opts, _ := strings.Cut(rest, ";")
	spanHex = strings.TrimSpace(spanHex)
	if spanHex == "" || len(spanHex) > 16 {
		return trace.SpanContext{}, false
	}
	spanID, err := trace.SpanIDFromHex(strings.Repeat("0", 16-len(spanHex)) + spanHex)
	if err != nil {
		return trace.SpanContext{}, false
	}
	var flags trace.TraceFlags
	if strings.TrimSpace(opts) == "o=1" {
		flags = trace.FlagsSampled
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	}), true
}

func formatCloudTrace(info TraceInfo) string {
	o := "0"
	if info.Sampled {
		o = "1"
	}
	return fmt.Sprintf("%s/%s;o=%s", info.TraceID, info.SpanID, o)
}

func pathOrRoot(r *http.Request) string {
	if r.URL == nil || r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}
