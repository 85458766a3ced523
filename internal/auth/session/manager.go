package session

import (
	"net/http"
	"time"

	"campus-portal/internal/auth"
	"campus-portal/internal/auth/token"
)

// Manager issues, reads and clears the signed session cookie. The token
// itself is the session; there is no server-side session state.
type Manager struct {
	codec *token.Codec
	opts  CookieOptions

	now func() time.Time
}

func NewManager(codec *token.Codec, opts CookieOptions) *Manager {
	return &Manager{
		codec: codec,
		opts:  opts,
		now:   time.Now,
	}
}

// Establish mints a token for the identity and sets it as the session
// cookie. The cookie lifetime matches the token's validity window.
func (m *Manager) Establish(w http.ResponseWriter, identity auth.Identity) error {
	tok, err := m.codec.Mint(identity)
	if err != nil {
		return err
	}
	setCookie(w, tok, m.now().Add(m.codec.TTL()), m.opts)
	return nil
}

// Current resolves the caller's identity from the request. Missing,
// expired and tampered cookies all report no session; callers never see
// an error from this path.
func (m *Manager) Current(r *http.Request) (auth.Identity, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return auth.Identity{}, false
	}

	identity, err := m.codec.Validate(cookie.Value)
	if err != nil {
		return auth.Identity{}, false
	}
	return identity, true
}

// Clear removes the session cookie so Current reports no session on the
// next request. Already-minted tokens stay valid until expiry; there is
// no revocation list.
func (m *Manager) Clear(w http.ResponseWriter) {
	clearCookie(w, m.opts)
}
