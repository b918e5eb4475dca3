// Package meta carries request metadata through context and translates error
// codes into user-facing messages.
package meta

import "context"

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID represents a unique identifier for tracing requests across services.
	TraceID ContextKey = "trace_id"

	// RequestSubject is the subject of the bearer token that authorized the request.
	RequestSubject ContextKey = "request_subject"

	// IPAddress contains the client's IP address.
	IPAddress ContextKey = "ip_address"

	// UserAgent contains the user agent string from the request.
	UserAgent ContextKey = "user_agent"

	// RemoteAddr contains the network address that sent the request.
	RemoteAddr ContextKey = "remote_addr"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"

	// AcceptLanguage indicates the natural language and locale that the client prefers.
	AcceptLanguage ContextKey = "accept-language"

	// XClientAppName identifies the client application name, e.g. a peer catalog.
	XClientAppName ContextKey = "x-client-app-name"
)

var allKeys = []ContextKey{ //nolint:gochecknoglobals // fixed key list
	TraceID,
	RequestSubject,
	IPAddress,
	UserAgent,
	RemoteAddr,
	ServiceName,
	ServiceVersion,
	AcceptLanguage,
	XClientAppName,
}

// InjectMetaToContext adds metadata from the provided map to the context.
// Empty values are skipped.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext returns every non-empty predefined key found in ctx.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range allKeys {
		if v := Find(ctx, k); v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the string stored under key, or "" when it is absent or not a string.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
