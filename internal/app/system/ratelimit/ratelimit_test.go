package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("request %d: expected allow", i+1)
		}
	}
	if l.Allow("key") {
		t.Fatal("request 4: expected deny")
	}
	// Other keys are unaffected.
	if !l.Allow("other") {
		t.Fatal("different key: expected allow")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := New(1, 10*time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("first request: expected allow")
	}
	if l.Allow("key") {
		t.Fatal("second request: expected deny")
	}

	time.Sleep(20 * time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("after window expiry: expected allow")
	}
}

func TestLimiterRemaining(t *testing.T) {
	l := New(5, time.Minute)

	if got := l.Remaining("key"); got != 5 {
		t.Errorf("fresh key: remaining = %d, want 5", got)
	}
	l.Allow("key")
	l.Allow("key")
	if got := l.Remaining("key"); got != 3 {
		t.Errorf("after 2 requests: remaining = %d, want 3", got)
	}
}

func TestLimiterReset(t *testing.T) {
	l := New(1, time.Minute)

	l.Allow("key")
	if l.Allow("key") {
		t.Fatal("expected deny before reset")
	}
	l.Reset("key")
	if !l.Allow("key") {
		t.Fatal("expected allow after reset")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name string
		xff  string
		xri  string
		addr string
		want string
	}{
		{"x-forwarded-for wins", "203.0.113.7, 10.0.0.1", "", "192.0.2.1:1234", "203.0.113.7"},
		{"x-real-ip fallback", "", "203.0.113.9", "192.0.2.1:1234", "203.0.113.9"},
		{"remote addr strips port", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr without port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/location", nil)
			r.RemoteAddr = tt.addr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubmitLimiterPerProfile(t *testing.T) {
	sl := NewSubmitLimiterWithConfig(100, time.Minute, 2, time.Minute)

	r := httptest.NewRequest("POST", "/location", nil)
	r.RemoteAddr = "192.0.2.1:1234"

	for i := 0; i < 2; i++ {
		if ok, reason := sl.Check(r, "profile-a"); !ok {
			t.Fatalf("submission %d: blocked: %s", i+1, reason)
		}
	}
	if ok, _ := sl.Check(r, "profile-a"); ok {
		t.Fatal("third submission for profile-a: expected block")
	}
	// A different profile from the same IP is still fine.
	if ok, reason := sl.Check(r, "profile-b"); !ok {
		t.Fatalf("profile-b blocked: %s", reason)
	}
}

func TestSubmitLimiterPerIP(t *testing.T) {
	sl := NewSubmitLimiterWithConfig(2, time.Minute, 100, time.Minute)

	r := httptest.NewRequest("POST", "/location", nil)
	r.RemoteAddr = "192.0.2.1:1234"

	sl.Check(r, "p1")
	sl.Check(r, "p2")
	if ok, _ := sl.Check(r, "p3"); ok {
		t.Fatal("third submission from same IP: expected block")
	}
}
