package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeLimiterStore struct {
	counts map[string]int64
	keys   []string
}

func (s *fakeLimiterStore) RateLimitKey(scope string) string {
	return "hd:rate_limit:" + scope
}

func (s *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	s.keys = append(s.keys, key)
	return s.counts[key], nil
}

func decodeErrorCode(t *testing.T, body io.Reader) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestLoginRateLimitBlocksAfterIPLimit(t *testing.T) {
	store := &fakeLimiterStore{}
	policy := NewLoginRateLimitPolicy(time.Minute, 2, 0)

	var served int
	handler := LoginRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		w.WriteHeader(http.StatusOK)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.9:4411"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if served != 2 {
		t.Fatalf("expected 2 requests through, got %d", served)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on the third attempt, got %d", last.Code)
	}
	if code := decodeErrorCode(t, last.Body); code != "RATE_LIMIT_EXCEEDED" {
		t.Fatalf("unexpected error code %q", code)
	}

	for _, key := range store.keys {
		if !strings.HasPrefix(key, "hd:rate_limit:login:ip:") {
			t.Fatalf("counter key missing rate limit namespace: %q", key)
		}
	}
}

func TestLoginRateLimitHashesEmailAndRestoresBody(t *testing.T) {
	store := &fakeLimiterStore{}
	policy := NewLoginRateLimitPolicy(time.Minute, 0, 1)

	var seenBody string
	handler := LoginRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body in handler: %v", err)
		}
		seenBody = string(data)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"email":"Dana@Haulstead.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", rec.Code)
	}
	if seenBody != body {
		t.Fatalf("handler must see the original body, got %q", seenBody)
	}
	for _, key := range store.keys {
		if strings.Contains(strings.ToLower(key), "dana") {
			t.Fatalf("raw email leaked into counter key %q", key)
		}
	}

	// A differently-cased spelling of the same address shares the counter.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"dana@haulstead.com"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt for the same email should be limited, got %d", rec.Code)
	}
}
