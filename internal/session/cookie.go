// Package session issues signed visitor cookies and keeps each visitor's
// page state in memory until it goes idle.
package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// CookieName is the visitor cookie.
const CookieName = "MANGROVE_SESSION"

var (
	// ErrInvalidToken is returned for a cookie that is malformed or carries a bad signature.
	ErrInvalidToken = errors.New("session: invalid token")
	// ErrNotFound is returned when no state exists for a session id.
	ErrNotFound = errors.New("session: not found")
)

// Token is the signed cookie payload.
type Token struct {
	ID       string    `json:"id"`
	IssuedAt time.Time `json:"iat"`
}

// Codec signs and verifies cookie values with HMAC-SHA256.
type Codec struct {
	key    []byte
	secure bool
	maxAge time.Duration
}

// NewCodec returns a codec for key. An empty key is replaced by a random
// process-local key, which invalidates cookies on restart.
func NewCodec(key []byte, secure bool, maxAge time.Duration) (*Codec, bool) {
	ephemeral := false
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			key = []byte("insecure-dev-key-set-MANGROVE_WEB_SESSION__SIGNING_KEY")
		}
		ephemeral = true
	}
	return &Codec{key: key, secure: secure, maxAge: maxAge}, ephemeral
}

// NewID returns a fresh, time-ordered session id.
func NewID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}

// Issue creates a token for a new session.
func (c *Codec) Issue(now time.Time) Token {
	return Token{ID: NewID(now), IssuedAt: now.UTC()}
}

// Encode serializes and signs t as payload.signature.
func (c *Codec) Encode(t Token) string {
	b, _ := json.Marshal(t)
	return base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(c.sign(b))
}

// Decode verifies and parses a cookie value.
func (c *Codec) Decode(v string) (Token, error) {
	payload, sig, ok := strings.Cut(v, ".")
	if !ok {
		return Token{}, ErrInvalidToken
	}
	b, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Token{}, ErrInvalidToken
	}
	s, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(s, c.sign(b)) {
		return Token{}, ErrInvalidToken
	}
	var t Token
	if err := json.Unmarshal(b, &t); err != nil {
		return Token{}, ErrInvalidToken
	}
	if _, err := ulid.ParseStrict(t.ID); err != nil {
		return Token{}, ErrInvalidToken
	}
	return t, nil
}

// Read returns the verified token carried by r.
func (c *Codec) Read(r *http.Request) (Token, error) {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return Token{}, ErrInvalidToken
	}
	return c.Decode(ck.Value)
}

// Write sets the cookie for t on w.
func (c *Codec) Write(w http.ResponseWriter, t Token) {
	ck := &http.Cookie{
		Name:     CookieName,
		Value:    c.Encode(t),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.maxAge > 0 {
		ck.MaxAge = int(c.maxAge / time.Second)
	}
	http.SetCookie(w, ck)
}

// CSRFToken derives the anti-forgery token bound to session id.
func (c *Codec) CSRFToken(id string) string {
	return base64.RawURLEncoding.EncodeToString(c.sign([]byte("csrf:" + id)))
}

// VerifyCSRF reports whether token belongs to session id.
func (c *Codec) VerifyCSRF(id, token string) bool {
	got, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	return hmac.Equal(got, c.sign([]byte("csrf:"+id)))
}

func (c *Codec) sign(b []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(b)
	return mac.Sum(nil)
}
