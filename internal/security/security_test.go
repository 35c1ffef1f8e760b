package security

import (
	"crypto/tls"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := GenerateToken()
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if !hexToken.MatchString(tok) {
			t.Fatalf("GenerateToken() = %q, want 32 lowercase hex chars", tok)
		}
		if seen[tok] {
			t.Fatalf("GenerateToken() repeated %q", tok)
		}
		seen[tok] = true
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("abc")
	if len(a) != 64 {
		t.Errorf("HashToken() length = %d, want 64", len(a))
	}
	if a != HashToken("abc") {
		t.Error("HashToken() is not deterministic")
	}
	if a == HashToken("abd") {
		t.Error("HashToken() collided on different input")
	}
	if a == "abc" {
		t.Error("HashToken() returned the raw token")
	}
}

func TestExpiresAt(t *testing.T) {
	from := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	got := ExpiresAt(from, 120*time.Second)
	want := time.Date(2024, 1, 1, 11, 2, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("ExpiresAt() = %v, want %v", got, want)
	}
}

func TestCSRFGenerator(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	tests := []struct {
		name    string
		session string
		token   string
		want    bool
	}{
		{"matching token", "session-a", g.Token("session-a"), true},
		{"token for other session", "session-a", g.Token("session-b"), false},
		{"empty token", "session-a", "", false},
		{"empty session", "", g.Token("session-a"), false},
		{"tampered token", "session-a", g.Token("session-a")[:10] + "0000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Valid(tt.session, tt.token); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}

	if NewCSRFGenerator("other-secret").Valid("session-a", g.Token("session-a")) {
		t.Error("token validated under a different secret")
	}
	if g.Token("") != "" {
		t.Error("Token(\"\") should be empty")
	}
}

func TestIsSecureRequest(t *testing.T) {
	plain := httptest.NewRequest("GET", "/", nil)
	if IsSecureRequest(plain) {
		t.Error("plain request reported as secure")
	}

	proxied := httptest.NewRequest("GET", "/", nil)
	proxied.Header.Set("X-Forwarded-Proto", "https")
	if !IsSecureRequest(proxied) {
		t.Error("X-Forwarded-Proto https not detected")
	}

	direct := httptest.NewRequest("GET", "/", nil)
	direct.TLS = &tls.ConnectionState{}
	if !IsSecureRequest(direct) {
		t.Error("TLS request not detected")
	}
}

func TestTokenCookies(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	c := CreateTokenCookie(r, "game", "tok", time.Now().Add(120*time.Second))
	if c.Value != "tok" || c.Path != "/" || !c.HttpOnly {
		t.Errorf("unexpected cookie %+v", c)
	}
	if c.MaxAge < 118 || c.MaxAge > 120 {
		t.Errorf("MaxAge = %d, want about 120", c.MaxAge)
	}

	expired := CreateTokenCookie(r, "game", "tok", time.Now().Add(-time.Second))
	if expired.MaxAge != -1 {
		t.Errorf("expired cookie MaxAge = %d, want -1", expired.MaxAge)
	}

	del := CreateDeleteCookie(r, "game")
	if del.MaxAge != -1 || del.Value != "" {
		t.Errorf("unexpected delete cookie %+v", del)
	}
}
