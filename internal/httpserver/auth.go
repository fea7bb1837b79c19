// internal/httpserver/auth.go
//
// Host operator authentication.
//   - POST /host/login checks the password against a bcrypt hash and issues an
//     HS256 JWT, set as an HttpOnly cookie and returned in the body.
//   - requireHost accepts the token from "Authorization: Bearer" or the cookie.
//   - With no password configured every request passes.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	hostCookieName = "boggle_host"
	hostSubject    = "host"
	tokenTTL       = 12 * time.Hour
)

var (
	ErrBadPassword  = errors.New("httpserver: invalid host password")
	ErrInvalidToken = errors.New("httpserver: invalid host token")
)

type hostAuth struct {
	hash   []byte // bcrypt of the host password; nil disables auth
	secret []byte
	now    func() time.Time
}

func newHostAuth(password, secret string) (*hostAuth, error) {
	a := &hostAuth{secret: []byte(secret), now: time.Now}
	if password == "" {
		return a, nil
	}
	if secret == "" {
		return nil, errors.New("httpserver: JWT secret required when a host password is set")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("httpserver: hash host password: %w", err)
	}
	a.hash = h
	return a, nil
}

func (a *hostAuth) enabled() bool { return a.hash != nil }

// login verifies password and returns a signed token with its expiry.
func (a *hostAuth) login(password string) (string, time.Time, error) {
	if a.enabled() && bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return "", time.Time{}, ErrBadPassword
	}
	now := a.now()
	exp := now.Add(tokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": hostSubject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString(a.secret)
	return ss, exp, err
}

// verify checks a token's signature, expiry, and subject.
func (a *hostAuth) verify(tokenStr string) error {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	if sub, _ := claims.GetSubject(); sub != hostSubject {
		return ErrInvalidToken
	}
	return nil
}

// requireHost enforces a valid host token when auth is enabled.
func (s *Server) requireHost() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.auth.enabled() {
				next.ServeHTTP(w, r)
				return
			}
			tok := bearerOrCookie(r)
			if tok == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			if err := s.auth.verify(tok); err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type loginReq struct {
	Password string `json:"password"`
}

// handleLogin exchanges the host password for a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	tok, exp, err := s.auth.login(body.Password)
	if errors.Is(err, ErrBadPassword) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("host login failed")
		http.Error(w, `{"error":"Invalid password"}`, http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     hostCookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
	_ = json.NewEncoder(w).Encode(map[string]any{"token": tok, "expiresAt": exp.UTC()})
}

// bearerOrCookie extracts a bearer token from Authorization header or host cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(hostCookieName); err == nil {
		return c.Value
	}
	return ""
}
