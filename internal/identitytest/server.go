// Package identitytest runs an in-process identity service with the same
// HTTP contract as the real one: GET /auth/me, POST /auth/logout and the
// provider sign-in handoff. Tests and the local demo use it.
package identitytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pathnova/sessiongate/internal"
	"github.com/pathnova/sessiongate/session"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// Server is a fake identity service. Users are registered with AddUser; a
// token returned by AddUser or set by the sign-in handoff authenticates
// /auth/me until it is logged out. The zero value is not usable; call
// NewServer.
type Server struct {
	srv    *httptest.Server
	issuer *TokenIssuer

	mu          sync.Mutex
	users       map[string]session.Identity
	order       []string
	revoked     map[string]struct{}
	meStatus    int
	meBody      []byte
	meDelay     time.Duration
	logoutCode  int
	frontendURL string

	meCalls     atomic.Int64
	logoutCalls atomic.Int64
}

// NewServer starts a fake identity service on a loopback port.
func NewServer() *Server {
	secret, err := internal.NewSigningSecret()
	if err != nil {
		panic("identitytest: " + err.Error())
	}
	issuer, err := NewTokenIssuer([]byte(secret), DefaultTokenTTL)
	if err != nil {
		panic("identitytest: " + err.Error())
	}

	s := &Server{
		issuer:  issuer,
		users:   make(map[string]session.Identity),
		revoked: make(map[string]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", s.handleMe)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/{provider}/start", s.handleStart)
	mux.HandleFunc("GET /auth/{provider}/callback", s.handleCallback)
	s.srv = httptest.NewServer(mux)
	return s
}

// URL is the base URL of the service.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the service down.
func (s *Server) Close() { s.srv.Close() }

// AddUser registers id and returns a session token for it.
func (s *Server) AddUser(id session.Identity) (string, error) {
	s.mu.Lock()
	if _, ok := s.users[id.ID]; !ok {
		s.order = append(s.order, id.ID)
	}
	s.users[id.ID] = id.Clone()
	s.mu.Unlock()

	return s.issuer.Issue(id.ID)
}

// Issuer exposes the token issuer, e.g. to mint tokens for unknown users.
func (s *Server) Issuer() *TokenIssuer { return s.issuer }

// FailMe makes /auth/me answer status with an empty JSON error. Zero restores
// normal behaviour.
func (s *Server) FailMe(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meStatus = status
}

// SetMeBody makes /auth/me answer 200 with body verbatim. Nil restores
// normal behaviour.
func (s *Server) SetMeBody(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meBody = body
}

// SetMeDelay delays every /auth/me answer.
func (s *Server) SetMeDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meDelay = d
}

// FailLogout makes /auth/logout answer status. Zero restores normal behaviour.
func (s *Server) FailLogout(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutCode = status
}

// SetFrontendURL is where the sign-in callback sends the browser. Default "/".
func (s *Server) SetFrontendURL(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frontendURL = u
}

func (s *Server) MeCalls() int64     { return s.meCalls.Load() }
func (s *Server) LogoutCalls() int64 { return s.logoutCalls.Load() }

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.meCalls.Add(1)

	s.mu.Lock()
	status, body, delay := s.meStatus, s.meBody, s.meDelay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
		return
	}
	if body != nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
		return
	}

	id, detail := s.authenticate(r)
	if detail != "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": detail})
		return
	}

	var name any
	if id.Name != "" {
		name = id.Name
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    id.ID,
		"email": id.Email,
		"name":  name,
	})
}

func (s *Server) authenticate(r *http.Request) (session.Identity, string) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return session.Identity{}, "No session"
	}
	claims, err := s.issuer.Parse(cookie.Value)
	if err != nil {
		return session.Identity{}, "Invalid session"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.revoked[claims.ID]; ok {
		return session.Identity{}, "Invalid session"
	}
	id, ok := s.users[claims.UID]
	if !ok {
		return session.Identity{}, "User not found"
	}
	return id, ""
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.logoutCalls.Add(1)

	s.mu.Lock()
	code := s.logoutCode
	s.mu.Unlock()
	if code != 0 {
		writeJSON(w, code, map[string]string{"detail": http.StatusText(code)})
		return
	}

	if cookie, err := r.Cookie(CookieName); err == nil {
		if claims, err := s.issuer.Parse(cookie.Value); err == nil {
			s.mu.Lock()
			s.revoked[claims.ID] = struct{}{}
			s.mu.Unlock()
		}
	}

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleStart stands in for the provider consent screen and sends the
// browser straight to the callback.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	target := "/auth/" + url.PathEscape(provider) + "/callback?code=fake"
	http.Redirect(w, r, target, http.StatusFound)
}

// handleCallback signs in the first registered user.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var uid string
	if len(s.order) > 0 {
		uid = s.order[0]
	}
	frontend := s.frontendURL
	s.mu.Unlock()

	if uid == "" || r.URL.Query().Get("code") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token exchange failed"})
		return
	}

	token, err := s.issuer.Issue(uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "token"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(DefaultTokenTTL / time.Second),
	})
	if frontend == "" {
		frontend = "/"
	}
	http.Redirect(w, r, frontend, http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
