package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"pobbin/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName        = "session"
	defaultExpiration = 30 * 24 * time.Hour
)

var ErrNoSession = errors.New("no valid session")

type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

// Manager signs and reads the session cookie. The cookie only carries the
// signed in user name.
type Manager struct {
	secret     []byte
	expiration time.Duration
	secure     bool
	now        func() time.Time
}

func NewManager(secret string, expiration time.Duration, secure bool) *Manager {
	if expiration <= 0 {
		expiration = defaultExpiration
	}

	return &Manager{
		secret:     []byte(secret),
		expiration: expiration,
		secure:     secure,
		now:        time.Now,
	}
}

func (m *Manager) Issue(user string) (string, error) {
	if !model.IsValidUserName(user) {
		return "", fmt.Errorf("issue session: %w", model.ErrInvalidUserName)
	}

	now := m.now()
	claims := &Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) Validate(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || !model.IsValidUserName(claims.User) {
		return "", ErrNoSession
	}
	return claims.User, nil
}

// User returns the signed in user of the request, if any.
func (m *Manager) User(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	user, err := m.Validate(cookie.Value)
	if err != nil {
		return "", false
	}
	return user, true
}

func (m *Manager) SetCookie(w http.ResponseWriter, user string) error {
	token, err := m.Issue(user)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  m.now().Add(m.expiration),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
