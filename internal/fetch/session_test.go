package fetch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSession_Empty(t *testing.T) {
	s, err := LoadSession("")
	if err != nil {
		t.Fatalf("expected nil error for empty path, got %v", err)
	}
	if s.CookieCount() != 0 {
		t.Errorf("expected no cookies, got %d", s.CookieCount())
	}
}

func TestLoadSession_Cookies(t *testing.T) {
	blob := `{
		"cookies": [
			{"name": "li_at", "value": "secret", "domain": ".linkedin.com", "path": "/", "expires": 1893456000, "httpOnly": true, "secure": true},
			{"name": "bcookie", "value": "v2", "domain": ".linkedin.com", "path": "/", "expires": -1}
		]
	}`

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(blob), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}

	if s.CookieCount() != 2 {
		t.Fatalf("expected 2 cookies, got %d", s.CookieCount())
	}
	if s.cookies[0].Name != "li_at" || !s.cookies[0].HTTPOnly {
		t.Errorf("first cookie not preserved: %+v", s.cookies[0])
	}
	if s.cookies[0].Expires == nil {
		t.Error("expected expiry on first cookie")
	}
	if s.cookies[1].Expires != nil {
		t.Error("session cookie must not carry an expiry")
	}
}

func TestLoadSession_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSession(path); err == nil {
		t.Error("expected error for malformed session file")
	}
}
