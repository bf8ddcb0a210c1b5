package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentstation/phobost/internal/server/response"
	"github.com/agentstation/phobost/pkg/logging"
)

// TestTimeout_PassesThroughFastHandlers verifies status, headers and body
// of handlers that finish in time.
func TestTimeout_PassesThroughFastHandlers(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Custom", "yes")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("<p>done</p>"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/md2html", nil))

	if w.Code != http.StatusAccepted {
		t.Errorf("expected status 202, got %d", w.Code)
	}
	if w.Header().Get("X-Custom") != "yes" {
		t.Error("expected handler header to be copied")
	}
	if w.Body.String() != "<p>done</p>" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

// TestTimeout_ImplicitOK verifies a body-only handler yields 200.
func TestTimeout_ImplicitOK(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"Ok"`))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != `"Ok"` {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

// TestTimeout_Expired verifies the 408 response, context cancellation of the
// abandoned handler and that its late output is discarded.
func TestTimeout_Expired(t *testing.T) {
	handlerErr := make(chan error, 1)
	lateWrite := make(chan error, 1)

	handler := Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		handlerErr <- r.Context().Err()

		_, err := w.Write([]byte("late output"))
		lateWrite <- err
	}))

	w := httptest.NewRecorder()
	start := time.Now()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/md2html", nil))
	elapsed := time.Since(start)

	if w.Code != http.StatusRequestTimeout {
		t.Fatalf("expected status 408, got %d", w.Code)
	}
	if elapsed > time.Second {
		t.Errorf("timeout response took too long: %v", elapsed)
	}

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("timeout body is not the JSON envelope: %v", err)
	}
	if body.Error == nil || body.Error.Code != "REQUEST_TIMEOUT" {
		t.Errorf("expected REQUEST_TIMEOUT error, got %+v", body.Error)
	}

	select {
	case err := <-handlerErr:
		if err != context.DeadlineExceeded {
			t.Errorf("expected handler context deadline exceeded, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler context was never cancelled")
	}

	select {
	case err := <-lateWrite:
		if err != http.ErrHandlerTimeout {
			t.Errorf("expected late write to fail with ErrHandlerTimeout, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never attempted its late write")
	}

	if strings.Contains(w.Body.String(), "late output") {
		t.Error("late handler output leaked into the response")
	}
}

// TestTimeout_ConcurrentRequestsUnaffected verifies one request timing out
// does not disturb another running at the same time.
func TestTimeout_ConcurrentRequestsUnaffected(t *testing.T) {
	handler := Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
			return
		}
		_, _ = w.Write([]byte("fast"))
	}))

	var wg sync.WaitGroup
	codes := make(map[string]int)
	var mu sync.Mutex

	for _, path := range []string{"/slow", "/fast", "/fast2"} {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			mu.Lock()
			codes[path] = w.Code
			mu.Unlock()
		}(path)
	}
	wg.Wait()

	if codes["/slow"] != http.StatusRequestTimeout {
		t.Errorf("slow request: expected 408, got %d", codes["/slow"])
	}
	if codes["/fast"] != http.StatusOK || codes["/fast2"] != http.StatusOK {
		t.Errorf("fast requests should succeed, got %v", codes)
	}
}

// TestTimeout_LogsExpiry verifies the warning carries the span fields.
func TestTimeout_LogsExpiry(t *testing.T) {
	tl := logging.NewTestLogger(t)

	handler := Trace(tl.Logger, nil)(Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/md2html", nil)
	req.Header.Set("x-request-id", "slow-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	entries := tl.EntriesWithMessage("Request timed out")
	if len(entries) != 1 {
		t.Fatalf("expected one timeout warning, got: %s", tl.Output())
	}
	if entries[0]["request_id"] != "slow-1" {
		t.Errorf("timeout warning missing request id: %v", entries[0])
	}
	if entries[0]["error"] != context.DeadlineExceeded.Error() {
		t.Errorf("timeout warning missing error field: %v", entries[0])
	}

	responses := tl.EntriesWithMessage("Response")
	if len(responses) != 1 {
		t.Fatalf("expected one Response entry, got: %s", tl.Output())
	}
	if status, _ := responses[0]["status_code"].(float64); int(status) != http.StatusRequestTimeout {
		t.Errorf("expected logged status 408, got %v", responses[0]["status_code"])
	}
}

// TestTimeout_PropagatesPanics verifies panics reach the caller's goroutine
// where Recovery or net/http can handle them.
func TestTimeout_PropagatesPanics(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if p := recover(); p != "boom" {
			t.Errorf("expected panic to propagate, got %v", p)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Fatal("expected panic")
}

// TestTimeout_RecoveryInside verifies the standard ordering turns a handler
// panic into a 500 without hitting the timeout.
func TestTimeout_RecoveryInside(t *testing.T) {
	logger := logging.NewNopLogger()
	handler := Chain(Timeout(time.Second), Recovery(logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}
