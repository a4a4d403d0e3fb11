package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"halide-hq/prism/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled: true,
		Path:    "/metrics",
	}
}

// TestCollector_NewCollector tests collector creation
func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.registry != registry {
		t.Error("Collector registry not set correctly")
	}
}

// TestCollector_NewCollector_NilRegistry tests that a registry is created
// when none is supplied
func TestCollector_NewCollector_NilRegistry(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	if collector.Registry() == nil {
		t.Fatal("Expected collector to create a registry")
	}
}

// TestCollector_RecordRequest tests request recording
func TestCollector_RecordRequest(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	tests := []struct {
		name     string
		preset   string
		outcome  string
		duration time.Duration
		bytes    int64
	}{
		{
			name:     "streamed avatar",
			preset:   "avatar",
			outcome:  "streamed",
			duration: 120 * time.Millisecond,
			bytes:    48213,
		},
		{
			name:     "redirected oversize",
			preset:   "custom",
			outcome:  "redirected",
			duration: 15 * time.Millisecond,
			bytes:    0,
		},
		{
			name:     "errored fetch",
			preset:   "emoji",
			outcome:  "error",
			duration: 5 * time.Second,
			bytes:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordRequest(tt.preset, tt.outcome, tt.duration, tt.bytes)

			// Verify request counter was incremented
			count := testutil.ToFloat64(collector.proxyMetrics.requestsTotal.WithLabelValues(tt.preset, tt.outcome))
			if count < 1 {
				t.Errorf("Expected request counter >= 1, got %f", count)
			}
		})
	}
}

// TestCollector_InFlight tests the in-flight gauge
func TestCollector_InFlight(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	collector.IncInFlight()
	collector.IncInFlight()

	inFlight := testutil.ToFloat64(collector.proxyMetrics.inFlight)
	if inFlight != 2 {
		t.Errorf("Expected in-flight=2, got %f", inFlight)
	}

	collector.DecInFlight()

	inFlight = testutil.ToFloat64(collector.proxyMetrics.inFlight)
	if inFlight != 1 {
		t.Errorf("Expected in-flight=1, got %f", inFlight)
	}
}

// TestCollector_FetchMetrics tests fetch metric recording
func TestCollector_FetchMetrics(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// Test fetch recording
	t.Run("record fetch", func(t *testing.T) {
		collector.RecordFetch("2xx", 80*time.Millisecond, 48213)
		count := testutil.ToFloat64(collector.fetchMetrics.fetchesTotal.WithLabelValues("2xx"))
		if count < 1 {
			t.Errorf("Expected fetch count >= 1, got %f", count)
		}
	})

	// Test error recording
	t.Run("record error", func(t *testing.T) {
		collector.RecordFetchError("timeout")
		count := testutil.ToFloat64(collector.fetchMetrics.errorsTotal.WithLabelValues("timeout"))
		if count < 1 {
			t.Errorf("Expected error count >= 1, got %f", count)
		}
	})

	// Test redirect recording
	t.Run("record redirects", func(t *testing.T) {
		collector.RecordRedirects(2)
		// Just verify it doesn't panic
	})

	// Test size exceeded recording
	t.Run("record size exceeded", func(t *testing.T) {
		collector.RecordSizeExceeded("declared")
		count := testutil.ToFloat64(collector.fetchMetrics.sizeExceededTotal.WithLabelValues("declared"))
		if count < 1 {
			t.Errorf("Expected size exceeded count >= 1, got %f", count)
		}
	})
}

// TestCollector_TransformMetrics tests transform metric recording
func TestCollector_TransformMetrics(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// Test transform recording
	t.Run("record transform", func(t *testing.T) {
		collector.RecordTransform("png", "transformed", 40*time.Millisecond, 100000, 25000)
		count := testutil.ToFloat64(collector.transformMetrics.transformsTotal.WithLabelValues("png", "transformed"))
		if count < 1 {
			t.Errorf("Expected transform count >= 1, got %f", count)
		}
	})

	// Test passthrough recording
	t.Run("record passthrough", func(t *testing.T) {
		collector.RecordTransform("webp", "passthrough", time.Millisecond, 100000, 100000)
		count := testutil.ToFloat64(collector.transformMetrics.transformsTotal.WithLabelValues("webp", "passthrough"))
		if count < 1 {
			t.Errorf("Expected passthrough count >= 1, got %f", count)
		}
	})

	// Test decode failure recording
	t.Run("record decode failure", func(t *testing.T) {
		collector.RecordDecodeFailure("gif")
		count := testutil.ToFloat64(collector.transformMetrics.decodeFailuresTotal.WithLabelValues("gif"))
		if count < 1 {
			t.Errorf("Expected decode failure count >= 1, got %f", count)
		}
	})
}

// TestCollector_PolicyMetrics tests policy metric recording
func TestCollector_PolicyMetrics(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// Test blocked recording
	t.Run("record blocked", func(t *testing.T) {
		collector.RecordBlocked("private")
		count := testutil.ToFloat64(collector.policyMetrics.blockedTotal.WithLabelValues("private"))
		if count < 1 {
			t.Errorf("Expected blocked count >= 1, got %f", count)
		}
	})

	// Test reload recording
	t.Run("record reload", func(t *testing.T) {
		collector.RecordPolicyReload(true)
		count := testutil.ToFloat64(collector.policyMetrics.reloadsTotal.WithLabelValues("success"))
		if count < 1 {
			t.Errorf("Expected reload success count >= 1, got %f", count)
		}

		collector.RecordPolicyReload(false)
		count = testutil.ToFloat64(collector.policyMetrics.reloadsTotal.WithLabelValues("failure"))
		if count < 1 {
			t.Errorf("Expected reload failure count >= 1, got %f", count)
		}
	})

	// Test entries update
	t.Run("update entries", func(t *testing.T) {
		collector.UpdatePolicyEntries(42, 7)

		hosts := testutil.ToFloat64(collector.policyMetrics.entries.WithLabelValues("hosts"))
		if hosts != 42 {
			t.Errorf("Expected hosts=42, got %f", hosts)
		}

		networks := testutil.ToFloat64(collector.policyMetrics.entries.WithLabelValues("networks"))
		if networks != 7 {
			t.Errorf("Expected networks=7, got %f", networks)
		}
	})
}

// TestCollector_Disabled tests that metrics are not recorded when disabled
func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// These should not panic and should not record
	collector.RecordRequest("avatar", "streamed", time.Second, 1000)
	collector.RecordFetch("2xx", time.Second, 1000)
	collector.RecordTransform("png", "transformed", time.Millisecond, 100, 50)
	collector.RecordBlocked("host")
	collector.IncInFlight()

	count := testutil.ToFloat64(collector.proxyMetrics.requestsTotal.WithLabelValues("avatar", "streamed"))
	if count != 0 {
		t.Errorf("Expected no requests recorded while disabled, got %f", count)
	}
}

// TestStatusClass tests status code classification
func TestStatusClass(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{500, "5xx"},
		{599, "5xx"},
		{100, "1xx"},
		{0, "other"},
		{99, "other"},
		{600, "other"},
		{-1, "other"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.code), func(t *testing.T) {
			if got := StatusClass(tt.code); got != tt.want {
				t.Errorf("StatusClass(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

// TestCollector_ConcurrentRecording tests thread-safety
func TestCollector_ConcurrentRecording(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	done := make(chan bool)

	// Spawn multiple goroutines recording metrics
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				collector.RecordRequest("avatar", "streamed", time.Second, 1000)
				collector.RecordFetch("2xx", 80*time.Millisecond, 1000)
				collector.RecordBlocked("host")
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	// Verify we got all requests recorded
	count := testutil.ToFloat64(collector.proxyMetrics.requestsTotal.WithLabelValues("avatar", "streamed"))
	if count != 1000 {
		t.Errorf("Expected 1000 requests, got %f", count)
	}
}

// TestCollector_Handler tests the metrics HTTP handler
func TestCollector_Handler(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	collector.RecordRequest("avatar", "streamed", 120*time.Millisecond, 48213)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	collector.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from metrics handler, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "prism_requests_total") {
		t.Errorf("Exposition output missing prism_requests_total: %s", body)
	}
	if !strings.Contains(body, `preset="avatar"`) {
		t.Errorf("Exposition output missing preset label: %s", body)
	}
}
