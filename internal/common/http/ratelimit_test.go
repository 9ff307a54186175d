package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, nil)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/users/format", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:1000"); code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, code)
		}
	}
	if code := send("10.0.0.1:1001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once burst is spent, got %d", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusNoContent {
		t.Errorf("other clients keep their own bucket, got %d", code)
	}
}

func TestRateLimiter_CleanupDropsFullBuckets(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, nil)
	rl.Allow("busy")
	rl.getLimiter("idle")
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.limiters["idle"]; ok {
		t.Error("expected untouched bucket to be dropped")
	}
	if _, ok := rl.limiters["busy"]; !ok {
		t.Error("expected drained bucket to be kept")
	}
}
