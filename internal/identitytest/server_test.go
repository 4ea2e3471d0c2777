package identitytest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"testing"
	"time"

	"github.com/pathnova/sessiongate/session"
)

func getMe(t *testing.T, s *Server, token string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, s.URL()+"/auth/me", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /auth/me failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestServerMe(t *testing.T) {
	s := NewServer()
	defer s.Close()

	token, err := s.AddUser(session.Identity{ID: "u-1", Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	status, body := getMe(t, s, token)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["id"] != "u-1" || body["name"] != "Ada" || body["email"] != "ada@example.com" {
		t.Fatalf("unexpected body %v", body)
	}

	if status, body := getMe(t, s, ""); status != http.StatusUnauthorized || body["detail"] != "No session" {
		t.Fatalf("expected 401 No session, got %d %v", status, body)
	}
	if status, body := getMe(t, s, "not-a-jwt"); status != http.StatusUnauthorized || body["detail"] != "Invalid session" {
		t.Fatalf("expected 401 Invalid session, got %d %v", status, body)
	}

	orphan, err := s.Issuer().Issue("u-404")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if status, body := getMe(t, s, orphan); status != http.StatusUnauthorized || body["detail"] != "User not found" {
		t.Fatalf("expected 401 User not found, got %d %v", status, body)
	}
	if s.MeCalls() != 4 {
		t.Fatalf("expected 4 calls, got %d", s.MeCalls())
	}
}

func TestServerMeNullName(t *testing.T) {
	s := NewServer()
	defer s.Close()

	token, err := s.AddUser(session.Identity{ID: "u-2", Email: "grace@example.com"})
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	status, body := getMe(t, s, token)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if v, ok := body["name"]; !ok || v != nil {
		t.Fatalf("expected explicit null name, got %v", body)
	}
}

func TestServerOverrides(t *testing.T) {
	s := NewServer()
	defer s.Close()

	s.FailMe(http.StatusInternalServerError)
	if status, _ := getMe(t, s, ""); status != http.StatusInternalServerError {
		t.Fatalf("expected forced 500, got %d", status)
	}
	s.FailMe(0)

	s.SetMeBody([]byte(`{"id":`))
	resp, err := http.Get(s.URL() + "/auth/me")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(raw) != `{"id":` {
		t.Fatalf("expected verbatim body, got %d %q", resp.StatusCode, raw)
	}
	s.SetMeBody(nil)

	s.SetMeDelay(200 * time.Millisecond)
	client := &http.Client{Timeout: 20 * time.Millisecond}
	if _, err := client.Get(s.URL() + "/auth/me"); err == nil {
		t.Fatal("expected client timeout while /auth/me is delayed")
	}
}

func TestServerLogoutRevokesToken(t *testing.T) {
	s := NewServer()
	defer s.Close()

	token, err := s.AddUser(session.Identity{ID: "u-1", Name: "Ada"})
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPost, s.URL()+"/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /auth/logout failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expected cookie to be cleared, got %q", resp.Header.Get("Set-Cookie"))
	}
	if status, _ := getMe(t, s, token); status != http.StatusUnauthorized {
		t.Fatalf("expected revoked token to be rejected, got %d", status)
	}

	s.FailLogout(http.StatusBadGateway)
	resp, err = http.Post(s.URL()+"/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected forced 502, got %d", resp.StatusCode)
	}
	if s.LogoutCalls() != 2 {
		t.Fatalf("expected 2 logout calls, got %d", s.LogoutCalls())
	}
}

func TestServerProviderHandoff(t *testing.T) {
	s := NewServer()
	defer s.Close()
	s.SetFrontendURL(s.URL() + "/auth/me")

	if _, err := s.AddUser(session.Identity{ID: "u-1", Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New failed: %v", err)
	}
	client := &http.Client{Jar: jar}

	resp, err := client.Get(s.URL() + "/auth/google/start")
	if err != nil {
		t.Fatalf("handoff failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body["name"] != "Ada" {
		t.Fatalf("expected signed-in identity after handoff, got %d %v", resp.StatusCode, body)
	}
}

func TestTokenIssuer(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}

	token, err := issuer.Issue("u-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UID != "u-1" || claims.ID == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("unexpected claims %+v", claims)
	}

	other, _ := NewTokenIssuer([]byte("other"), time.Hour)
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := issuer.Issue("u-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	issuer.now = time.Now
	if _, err := issuer.Parse(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := NewTokenIssuer(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewTokenIssuer([]byte("s"), 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
