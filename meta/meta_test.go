package meta_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/catalog/meta"
)

func TestInjectAndExtract(t *testing.T) {
	tests := []struct {
		name     string
		data     map[meta.ContextKey]string
		expected map[meta.ContextKey]string
	}{
		{
			name:     "empty",
			data:     map[meta.ContextKey]string{},
			expected: map[meta.ContextKey]string{},
		},
		{
			name: "empty values skipped",
			data: map[meta.ContextKey]string{
				meta.TraceID:        "trace-1",
				meta.RequestSubject: "",
			},
			expected: map[meta.ContextKey]string{meta.TraceID: "trace-1"},
		},
		{
			name: "all keys",
			data: map[meta.ContextKey]string{
				meta.TraceID:        "trace-1",
				meta.RequestSubject: "alice",
				meta.IPAddress:      "10.0.0.1",
				meta.UserAgent:      "curl",
				meta.RemoteAddr:     "10.0.0.1:5555",
				meta.ServiceName:    "catalog",
				meta.ServiceVersion: "v1",
				meta.AcceptLanguage: "en",
				meta.XClientAppName: "peer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := meta.InjectMetaToContext(t.Context(), tt.data)
			expected := tt.expected
			if expected == nil {
				expected = tt.data
			}
			assert.Equal(t, expected, meta.ExtractMetaFromContext(ctx))
		})
	}
}

func TestFind(t *testing.T) {
	ctx := context.WithValue(t.Context(), meta.TraceID, "trace-1")
	ctx = context.WithValue(ctx, meta.RequestSubject, 42)

	assert.Equal(t, "trace-1", meta.Find(ctx, meta.TraceID))
	assert.Empty(t, meta.Find(ctx, meta.RequestSubject))
	assert.Empty(t, meta.Find(ctx, meta.IPAddress))
}

func TestTr(t *testing.T) {
	meta.SetLanguageMap(map[string]map[string]string{
		"uz": {"NOT_AUTHORIZED": "Ruxsat yo'q."},
	}, "")

	assert.Equal(t, "Not authorized to access this dataset.", meta.Tr("NOT_AUTHORIZED", "en"))
	assert.Equal(t, "Ruxsat yo'q.", meta.Tr("NOT_AUTHORIZED", "uz"))
	assert.Equal(t, "The page token is malformed.", meta.Tr("BAD_PAGE_TOKEN", "uz"))
	assert.Equal(t, "The page token is malformed.", meta.Tr("BAD_PAGE_TOKEN", ""))
	assert.Equal(t, "[untranslated]: NO_SUCH_CODE", meta.Tr("NO_SUCH_CODE", "en"))

	ctx := context.WithValue(t.Context(), meta.AcceptLanguage, "uz")
	assert.Equal(t, "Ruxsat yo'q.", meta.TrCtx(ctx, "NOT_AUTHORIZED"))
}

func TestServiceInfo(t *testing.T) {
	meta.SetServiceInfo("catalog", "v1.2.0")
	meta.SetServiceInfo("other", "v9")

	assert.Equal(t, "catalog", meta.GetServiceName())
	assert.Equal(t, "v1.2.0", meta.GetServiceVersion())
}
