package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"10.0.0.1", "10.0.0.1"},
		{"10.0.0.1:8080", "10.0.0.1"},
		{"[::1]:8080", "::1"},
	}
	for _, c := range cases {
		if got := ParseHostNoPort(c.in); got != c.want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFirstForwardedFor(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"1.2.3.4", "1.2.3.4"},
		{" 1.2.3.4 , 5.6.7.8", "1.2.3.4"},
	}
	for _, c := range cases {
		if got := FirstForwardedFor(c.in); got != c.want {
			t.Errorf("FirstForwardedFor(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	r.Header.Set("X-Real-IP", "9.9.9.9")

	if got := ClientIP(r, false); got != "10.0.0.1" {
		t.Errorf("untrusted proxy: got %q, want remote addr host", got)
	}
	if got := ClientIP(r, true); got != "1.2.3.4" {
		t.Errorf("trusted proxy: got %q, want first forwarded-for", got)
	}

	r.Header.Del("X-Forwarded-For")
	if got := ClientIP(r, true); got != "9.9.9.9" {
		t.Errorf("trusted proxy without XFF: got %q, want X-Real-IP", got)
	}
}
