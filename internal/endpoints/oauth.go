package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	oauthEntryPath  = "/oauth2/authorization/poe"
	stateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, oauthEntryPath, http.StatusFound)
}

// oauthEntry starts the authorization code flow. The state is kept in a
// short lived cookie for the callback to compare against.
func (h *Handler) oauthEntry(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		writeError(w, http.StatusServiceUnavailable, "login is not configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  h.now().Add(stateTTL),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}
