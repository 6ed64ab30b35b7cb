package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	maxIDLength       = 64
	maxUserNameLength = 50
	userIDSeparator   = ":"
	pobOpenPrefix     = "pob://pobbin/"
)

var (
	ErrInvalidPasteID  = errors.New("invalid paste id")
	ErrInvalidUserName = errors.New("invalid user name")
)

var (
	idPattern       = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	userNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// Top level path segments owned by the site itself. An anonymous paste can
// never use one of these, otherwise "/<id>" would shadow them.
var reservedIDs = map[string]struct{}{
	"api":         {},
	"assets":      {},
	"healthz":     {},
	"login":       {},
	"metrics":     {},
	"oauth2":      {},
	"oembed.json": {},
	"pob":         {},
	"u":           {},
}

// PasteID identifies either an anonymous paste ("abc") or a paste owned by a
// user ("user:abc").
type PasteID struct {
	User string
	ID   string
}

func NewPasteID(id string) (PasteID, error) {
	if !IsValidID(id) {
		return PasteID{}, fmt.Errorf("%w: %q", ErrInvalidPasteID, id)
	}

	return PasteID{ID: id}, nil
}

func NewUserPasteID(user string, id string) (PasteID, error) {
	if !IsValidUserName(user) {
		return PasteID{}, fmt.Errorf("%w: %q", ErrInvalidUserName, user)
	}
	if !idPattern.MatchString(id) || len(id) > maxIDLength {
		return PasteID{}, fmt.Errorf("%w: %q", ErrInvalidPasteID, id)
	}

	return PasteID{User: user, ID: id}, nil
}

// ParsePasteID accepts both the anonymous and the "user:id" form.
func ParsePasteID(raw string) (PasteID, error) {
	user, id, scoped := strings.Cut(raw, userIDSeparator)
	if !scoped {
		return NewPasteID(raw)
	}

	return NewUserPasteID(user, id)
}

func IsValidID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	if _, reserved := reservedIDs[id]; reserved {
		return false
	}

	return idPattern.MatchString(id)
}

func IsValidUserName(name string) bool {
	if name == "" || len(name) > maxUserNameLength || name == "." || name == ".." {
		return false
	}

	return userNamePattern.MatchString(name)
}

// OwnedBy reports whether user may edit or delete the paste. Anonymous pastes
// have no owner.
func (p PasteID) OwnedBy(user string) bool {
	return user != "" && p.User == user
}

func (p PasteID) IsZero() bool {
	return p.ID == ""
}

func (p PasteID) IsUserScoped() bool {
	return p.User != ""
}

func (p PasteID) String() string {
	if p.User == "" {
		return p.ID
	}

	return p.User + userIDSeparator + p.ID
}

func (p PasteID) URL() string {
	if p.User == "" {
		return "/" + p.ID
	}

	return "/u/" + p.User + "/" + p.ID
}

func (p PasteID) JSONURL() string {
	return p.URL() + "/json"
}

func (p PasteID) RawURL() string {
	return p.URL() + "/raw"
}

func (p PasteID) EditURL() string {
	if p.User == "" {
		return ""
	}

	return p.URL() + "/edit"
}

func (p PasteID) PobOpenURL() string {
	return pobOpenPrefix + p.String()
}

func (p PasteID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PasteID) UnmarshalText(text []byte) error {
	parsed, err := ParsePasteID(string(text))
	if err != nil {
		return err
	}

	*p = parsed
	return nil
}
