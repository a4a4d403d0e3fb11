package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		timeout     time.Duration
		wantTimeout time.Duration
	}{
		{
			name:        "explicit timeout",
			timeout:     10 * time.Second,
			wantTimeout: 10 * time.Second,
		},
		{
			name:        "zero timeout uses default",
			timeout:     0,
			wantTimeout: 5 * time.Second,
		},
		{
			name:        "negative timeout uses default",
			timeout:     -1 * time.Second,
			wantTimeout: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.timeout)
			if c == nil {
				t.Fatal("New() returned nil")
			}
			if c.checkTimeout != tt.wantTimeout {
				t.Errorf("checkTimeout = %v, want %v", c.checkTimeout, tt.wantTimeout)
			}
			if c.CheckCount() != 0 {
				t.Errorf("CheckCount() = %d, want 0", c.CheckCount())
			}
		})
	}
}

func TestChecker_RegisterCheck(t *testing.T) {
	c := New(time.Second)

	c.RegisterCheck("config", func(ctx context.Context) error {
		return nil
	})

	if c.CheckCount() != 1 {
		t.Errorf("CheckCount() = %d, want 1", c.CheckCount())
	}
	if c.GetCheck("config") == nil {
		t.Error("GetCheck(config) = nil, want registered check")
	}
	if c.GetCheck("missing") != nil {
		t.Error("GetCheck(missing) != nil, want nil")
	}

	// Re-registering the same name replaces the check.
	c.RegisterCheck("config", func(ctx context.Context) error {
		return errors.New("replaced")
	})

	if c.CheckCount() != 1 {
		t.Errorf("CheckCount() after replace = %d, want 1", c.CheckCount())
	}

	status := c.CheckReadiness(context.Background())
	if status.Checks["config"].Status != "unhealthy" {
		t.Errorf("replaced check status = %q, want unhealthy", status.Checks["config"].Status)
	}
	if status.Checks["config"].Message != "replaced" {
		t.Errorf("replaced check message = %q, want replaced", status.Checks["config"].Message)
	}
}

func TestChecker_UnregisterCheck(t *testing.T) {
	c := New(time.Second)

	c.RegisterCheck("host_policy", func(ctx context.Context) error {
		return nil
	})
	c.UnregisterCheck("host_policy")

	if c.CheckCount() != 0 {
		t.Errorf("CheckCount() = %d, want 0", c.CheckCount())
	}
	if c.GetCheck("host_policy") != nil {
		t.Error("GetCheck(host_policy) != nil after unregister")
	}

	// Unregistering a missing check is a no-op.
	c.UnregisterCheck("missing")
}

func TestChecker_ListChecks(t *testing.T) {
	c := New(time.Second)

	if got := c.ListChecks(); len(got) != 0 {
		t.Errorf("ListChecks() = %v, want empty", got)
	}

	c.RegisterCheck("config", func(ctx context.Context) error { return nil })
	c.RegisterCheck("host_policy", func(ctx context.Context) error { return nil })

	names := c.ListChecks()
	if len(names) != 2 {
		t.Fatalf("ListChecks() returned %d names, want 2", len(names))
	}

	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	if !found["config"] || !found["host_policy"] {
		t.Errorf("ListChecks() = %v, want config and host_policy", names)
	}
}

func TestChecker_CheckLiveness(t *testing.T) {
	c := New(time.Second)

	// Liveness ignores registered checks entirely.
	c.RegisterCheck("failing", func(ctx context.Context) error {
		return errors.New("down")
	})

	status := c.CheckLiveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("Status = %q, want ok", status.Status)
	}
	if len(status.Checks) != 0 {
		t.Errorf("Checks = %v, want empty", status.Checks)
	}
	if status.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}

func TestChecker_CheckReadiness_NoChecks(t *testing.T) {
	c := New(time.Second)

	status := c.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("Status = %q, want ready", status.Status)
	}
	if len(status.Checks) != 0 {
		t.Errorf("Checks = %v, want empty", status.Checks)
	}
}

func TestChecker_CheckReadiness_AllHealthy(t *testing.T) {
	c := New(time.Second)

	c.RegisterCheck("config", func(ctx context.Context) error { return nil })
	c.RegisterCheck("host_policy", func(ctx context.Context) error { return nil })

	status := c.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("Status = %q, want ready", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Fatalf("got %d check results, want 2", len(status.Checks))
	}
	for name, result := range status.Checks {
		if result.Status != "ok" {
			t.Errorf("check %q status = %q, want ok", name, result.Status)
		}
		if result.Message != "" {
			t.Errorf("check %q message = %q, want empty", name, result.Message)
		}
	}
}

func TestChecker_CheckReadiness_SomeUnhealthy(t *testing.T) {
	c := New(time.Second)

	c.RegisterCheck("config", func(ctx context.Context) error { return nil })
	c.RegisterCheck("host_policy", func(ctx context.Context) error {
		return errors.New("policy file unreadable")
	})

	status := c.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", status.Status)
	}
	if status.Checks["config"].Status != "ok" {
		t.Errorf("config status = %q, want ok", status.Checks["config"].Status)
	}
	if status.Checks["host_policy"].Status != "unhealthy" {
		t.Errorf("host_policy status = %q, want unhealthy", status.Checks["host_policy"].Status)
	}
	if status.Checks["host_policy"].Message != "policy file unreadable" {
		t.Errorf("host_policy message = %q, want policy file unreadable", status.Checks["host_policy"].Message)
	}
}

func TestChecker_CheckReadiness_Timeout(t *testing.T) {
	c := New(100 * time.Millisecond)

	c.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-time.After(200 * time.Millisecond):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := c.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", status.Status)
	}
	result := status.Checks["slow"]
	if result.Status != "unhealthy" {
		t.Errorf("slow status = %q, want unhealthy", result.Status)
	}
	if !strings.Contains(result.Message, "timeout") {
		t.Errorf("slow message = %q, want timeout mention", result.Message)
	}
}

func TestChecker_CheckReadiness_ContextCancellation(t *testing.T) {
	c := New(5 * time.Second)

	c.RegisterCheck("blocked", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	status := c.CheckReadiness(ctx)
	elapsed := time.Since(start)

	if elapsed > 2*time.Second {
		t.Errorf("CheckReadiness took %v, cancellation did not propagate", elapsed)
	}
	if status.Checks["blocked"].Status != "unhealthy" {
		t.Errorf("blocked status = %q, want unhealthy", status.Checks["blocked"].Status)
	}
}

func TestLivenessHandler(t *testing.T) {
	c := New(time.Second)
	handler := c.LivenessHandler()

	tests := []struct {
		name       string
		method     string
		wantStatus int
		wantBody   bool
	}{
		{
			name:       "GET returns status",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantBody:   true,
		},
		{
			name:       "HEAD returns no body",
			method:     http.MethodHead,
			wantStatus: http.StatusOK,
			wantBody:   false,
		},
		{
			name:       "POST rejected",
			method:     http.MethodPost,
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			rec := httptest.NewRecorder()

			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody {
				var status HealthStatus
				if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
					t.Fatalf("invalid JSON body: %v", err)
				}
				if status.Status != "ok" {
					t.Errorf("body status = %q, want ok", status.Status)
				}
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
			}
			if !tt.wantBody && tt.wantStatus == http.StatusOK && rec.Body.Len() != 0 {
				t.Errorf("HEAD body = %q, want empty", rec.Body.String())
			}
		})
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name        string
		setupChecks func(c *Checker)
		wantStatus  int
		wantReady   string
	}{
		{
			name:        "no checks is ready",
			setupChecks: func(c *Checker) {},
			wantStatus:  http.StatusOK,
			wantReady:   "ready",
		},
		{
			name: "healthy checks are ready",
			setupChecks: func(c *Checker) {
				c.RegisterCheck("config", func(ctx context.Context) error { return nil })
			},
			wantStatus: http.StatusOK,
			wantReady:  "ready",
		},
		{
			name: "failing check degrades",
			setupChecks: func(c *Checker) {
				c.RegisterCheck("host_policy", func(ctx context.Context) error {
					return errors.New("stale")
				})
			},
			wantStatus: http.StatusServiceUnavailable,
			wantReady:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			tt.setupChecks(c)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()

			c.ReadinessHandler()(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var status HealthStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if status.Status != tt.wantReady {
				t.Errorf("body status = %q, want %q", status.Status, tt.wantReady)
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	handler := VersionHandler("1.4.0", "abc1234", "2026-08-25T10:00:00Z")

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if info.Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", info.Version)
	}
	if info.Commit != "abc1234" {
		t.Errorf("Commit = %q, want abc1234", info.Commit)
	}
	if info.BuildTime != "2026-08-25T10:00:00Z" {
		t.Errorf("BuildTime = %q, want 2026-08-25T10:00:00Z", info.BuildTime)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion is empty")
	}

	// Non-GET methods are rejected.
	req = httptest.NewRequest(http.MethodPost, "/version", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestChecker_Mount(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("config", func(ctx context.Context) error { return nil })

	mux := http.NewServeMux()
	c.Mount(mux, "1.4.0", "abc1234", "2026-08-25T10:00:00Z")

	paths := []string{"/health", "/ready", "/version"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("GET %s Content-Type = %q, want application/json", path, ct)
			}
		})
	}
}

func TestChecker_ConcurrentChecks(t *testing.T) {
	c := New(time.Second)

	for _, name := range []string{"config", "host_policy", "upstream"} {
		c.RegisterCheck(name, func(ctx context.Context) error {
			time.Sleep(10 * time.Millisecond)
			return nil
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := c.CheckReadiness(context.Background())
			if status.Status != "ready" {
				t.Errorf("Status = %q, want ready", status.Status)
			}
			if len(status.Checks) != 3 {
				t.Errorf("got %d check results, want 3", len(status.Checks))
			}
		}()
	}
	wg.Wait()
}

func TestCheckResult_DurationMS(t *testing.T) {
	c := New(time.Second)

	c.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	status := c.CheckReadiness(context.Background())
	result := status.Checks["slow"]
	if result.DurationMS < 50 {
		t.Errorf("DurationMS = %v, want >= 50", result.DurationMS)
	}

	// The wire format carries milliseconds, not nanoseconds.
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"duration_ms"`) {
		t.Errorf("marshaled result = %s, want duration_ms field", data)
	}
}
