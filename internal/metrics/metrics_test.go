package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/v1/health", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/v1/health", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/v1/md2html", http.StatusRequestTimeout, 30*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/v1/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/v1/md2html", "408")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestObserveConversion(t *testing.T) {
	m := New()

	m.ObserveConversion(100, 250)
	m.ObserveConversion(10, 20)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Conversions))
	assert.Equal(t, 110.0, testutil.ToFloat64(m.MarkdownBytes))
	assert.Equal(t, 270.0, testutil.ToFloat64(m.HTMLBytes))
}

func TestSetState(t *testing.T) {
	m := New()

	m.SetState(1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceState))
	m.SetState(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ServiceState))
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/v1/health", "/v1/health"},
		{"/v1/md2html", "/v1/md2html"},
		{"/docs", "/docs"},
		{"/docs/openapi.json", "/docs/openapi.json"},
		{"/docs/index.html", "/docs/"},
		{"/v1/unknown", "/v1/*"},
		{"/wp-admin/login.php", "unmatched"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteLabel(tt.path))
		})
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/v1/health", http.StatusOK, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "phobost_http_requests_total"), "missing request counter")
	assert.True(t, strings.Contains(body, "go_goroutines"), "missing runtime collector")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.ObserveConversion(1, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Conversions))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Conversions))
}
