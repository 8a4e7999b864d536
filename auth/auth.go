// Package auth issues and verifies the HS256 tokens that identify players.
//
// Tokens are optional: a request without a valid token resolves to a
// synthesized guest identity, so anonymous players can race immediately.
package auth

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for malformed, expired or forged tokens.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Identity is a resolved player.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsGuest  bool      `json:"is_guest"`
}

// claims carries the identity inside the token. Fields must be exported for
// JSON serialization.
type claims struct {
	Username string `json:"username"`
	IsGuest  bool   `json:"is_guest"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secretKey []byte
	ttl       time.Duration
}

// NewManager creates a token manager. A zero ttl falls back to
// DefaultTokenTTL.
func NewManager(secretKey string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Manager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
	}
}

// Generate signs a token for the given identity.
func (m *Manager) Generate(ident Identity) (string, error) {
	now := time.Now()
	c := claims{
		Username: ident.Username,
		IsGuest:  ident.IsGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(m.secretKey)
}

// Verify parses a token and returns the identity it carries.
func (m *Manager) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (any, error) {
		// Validate the signing method is what we expect (HMAC)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: id, Username: c.Username, IsGuest: c.IsGuest}, nil
}

// FromRequest extracts and verifies a token from the Authorization header or
// the token query parameter (browsers can't set headers on websocket
// upgrades).
func (m *Manager) FromRequest(r *http.Request) (Identity, error) {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	} else if q := r.URL.Query().Get("token"); q != "" {
		token = q
	}
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	return m.Verify(token)
}

// ResolveOrGuest resolves a request's identity, synthesizing a fresh guest
// when no valid token is present.
func (m *Manager) ResolveOrGuest(r *http.Request) Identity {
	if ident, err := m.FromRequest(r); err == nil {
		return ident
	}
	return NewGuestIdentity("")
}

// NewGuestIdentity creates a new anonymous identity. An empty username gets a
// Guest_NNNN placeholder.
func NewGuestIdentity(username string) Identity {
	if username == "" {
		username = fmt.Sprintf("Guest_%04d", rand.IntN(10000))
	}
	return Identity{ID: uuid.New(), Username: username, IsGuest: true}
}
