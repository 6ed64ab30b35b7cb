package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	manager := NewManager("secret", time.Hour, false)

	token, err := manager.Issue("nina")
	require.NoError(t, err)

	user, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "nina", user)

	_, err = NewManager("other", time.Hour, false).Validate(token)
	require.ErrorIs(t, err, ErrNoSession)

	_, err = manager.Issue("../etc")
	require.Error(t, err)
}

func TestExpiredSession(t *testing.T) {
	manager := NewManager("secret", time.Minute, false)
	issuedAt := time.Now()
	manager.now = func() time.Time { return issuedAt }

	token, err := manager.Issue("nina")
	require.NoError(t, err)

	manager.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestCookieRoundTrip(t *testing.T) {
	manager := NewManager("secret", time.Hour, true)

	rec := httptest.NewRecorder()
	require.NoError(t, manager.SetCookie(rec, "nina"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	user, ok := manager.User(req)
	require.True(t, ok)
	assert.Equal(t, "nina", user)

	_, ok = manager.User(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
