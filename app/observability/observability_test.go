package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name     string
		level    string
		encoding string
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{name: "Debug json", level: "debug", encoding: "json", enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel},
		{name: "Warn console", level: "WARN", encoding: "console", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{name: "Unknown level falls back to info", level: "loud", encoding: "json", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := NewLogger(tc.level, tc.encoding)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.enabled))
			if tc.disabled != tc.enabled {
				assert.False(t, logger.Core().Enabled(tc.disabled))
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	assert.Same(t, logger, FromContext(WithLogger(context.Background(), logger)))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(zap.New(core)))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "inside handler", entries[0].Message)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])

	done := entries[1].ContextMap()
	assert.Equal(t, "request completed", entries[1].Message)
	assert.Equal(t, "/items/{id}", done["route"])
	assert.Equal(t, "/items/7", done["path"])
	assert.EqualValues(t, http.StatusTeapot, done["status"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if matchLabels(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, labels map[string]string) bool {
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range labels {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}
	m.Hit()
	m.Miss()
	m.Miss()

	assert.Equal(t, 2.0, counterValue(t, m, "storefront_http_requests_total",
		map[string]string{"route": "/items/{id}", "method": "GET", "status": "200"}))
	assert.Equal(t, 1.0, counterValue(t, m, "storefront_http_requests_total",
		map[string]string{"method": "GET", "status": "404"}))
	assert.Equal(t, 1.0, counterValue(t, m, "storefront_query_cache_hits_total", nil))
	assert.Equal(t, 2.0, counterValue(t, m, "storefront_query_cache_misses_total", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_request_duration_seconds")
}
