package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(perSecond float64, burst int) RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: perSecond,
		Burst:             burst,
		CleanupInterval:   time.Hour,
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(testConfig(1, 2))

	// Burst of 2 allowed immediately.
	if !rl.Allow("1.2.3.4") {
		t.Error("first request should be allowed")
	}
	if !rl.Allow("1.2.3.4") {
		t.Error("second request should be allowed (burst)")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request should be limited")
	}

	// Other clients have their own budget.
	if !rl.Allow("5.6.7.8") {
		t.Error("different client should be allowed")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(testConfig(1, 1))

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/evaluations/phases", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("first request: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.1:1234",
			want:       "192.168.1.1",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for chain",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.3"},
			want:       "198.51.100.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %s, want %s", got, tt.want)
			}
		})
	}
}
