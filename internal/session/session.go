// Package session names the host that is driving the devhost. The name
// lives in a signed cookie so the event stream can tell hosts apart.
package session

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const (
	CookieName = "adbridge_host"
	maxAge     = 86400 * 7
)

var ErrNoSession = errors.New("session: no host session")

type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec signs cookies with hashKey. A nil blockKey leaves the value
// readable but tamper-proof.
func NewCodec(hashKey, blockKey []byte) *Codec {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(maxAge)
	return &Codec{sc: sc}
}

// Issue starts a new host session and returns its ID.
func (c *Codec) Issue(w http.ResponseWriter) (string, error) {
	hostID := uuid.NewString()
	encoded, err := c.sc.Encode(CookieName, hostID)
	if err != nil {
		return "", fmt.Errorf("encode host cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return hostID, nil
}

func (c *Codec) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}

	var hostID string
	if err := c.sc.Decode(CookieName, cookie.Value, &hostID); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if hostID == "" {
		return "", ErrNoSession
	}
	return hostID, nil
}

func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
