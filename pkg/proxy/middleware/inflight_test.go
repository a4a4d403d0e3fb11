package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"halide-hq/prism/pkg/config"
	"halide-hq/prism/pkg/proxy/types"
	"halide-hq/prism/pkg/telemetry/metrics"
)

func newTestCollector() *metrics.Collector {
	return metrics.NewCollector(&config.MetricsConfig{Enabled: false}, nil)
}

func TestInFlightMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("zero limit disables the bound", func(t *testing.T) {
		wrapped := InFlightMiddleware(0, newTestLogger(t), newTestCollector())(okHandler)

		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
			}
		}
	})

	t.Run("rejects request over the limit", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(entered)
			<-release
			w.WriteHeader(http.StatusOK)
		})

		wrapped := InFlightMiddleware(1, newTestLogger(t), newTestCollector())(slow)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/first", nil))
		}()

		// Wait until the first request holds the only slot.
		<-entered

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/second", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
		if w.Header().Get("Retry-After") == "" {
			t.Error("Retry-After should be set on rejection")
		}

		var errResp types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
			t.Fatalf("unmarshaling error body: %v", err)
		}
		if errResp.Error.Type != types.ErrorTypeServiceUnavailable {
			t.Errorf("type = %q, want %q", errResp.Error.Type, types.ErrorTypeServiceUnavailable)
		}
		if errResp.Error.Code != types.CodeOverloaded {
			t.Errorf("code = %q, want %q", errResp.Error.Code, types.CodeOverloaded)
		}

		close(release)
		wg.Wait()
	})

	t.Run("slot is released after completion", func(t *testing.T) {
		wrapped := InFlightMiddleware(1, newTestLogger(t), newTestCollector())(okHandler)

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
			}
		}
	})
}

func BenchmarkInFlightMiddleware(b *testing.B) {
	logger, err := newBenchLogger()
	if err != nil {
		b.Fatalf("logging.New: %v", err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	wrapped := InFlightMiddleware(64, logger, newTestCollector())(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
	}
}
