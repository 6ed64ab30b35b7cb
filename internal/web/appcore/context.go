package appcore

import (
	"errors"

	"pobbin/internal/api"
	"pobbin/internal/model"
	"pobbin/internal/storage"
)

// Context carries everything a page needs on the server. The Preloader
// fills it once per request and it is read-only afterwards.
type Context struct {
	sessionUser string

	paste    *model.Paste
	userName string
	pastes   []model.PasteSummary
	hasUser  bool
}

func NewContext(sessionUser string) *Context {
	return &Context{sessionUser: sessionUser}
}

func (c *Context) WithPaste(paste model.Paste) *Context {
	c.paste = &paste
	return c
}

func (c *Context) WithUser(name string, pastes []model.PasteSummary) *Context {
	if pastes == nil {
		pastes = []model.PasteSummary{}
	}
	c.userName = name
	c.pastes = pastes
	c.hasUser = true
	return c
}

func (c *Context) SessionUser() (string, bool) {
	if c == nil || c.sessionUser == "" {
		return "", false
	}
	return c.sessionUser, true
}

func (c *Context) Paste() (model.Paste, bool) {
	if c == nil || c.paste == nil {
		return model.Paste{}, false
	}
	return *c.paste, true
}

// User returns the preloaded listing. The listing is never nil when ok.
func (c *Context) User() (string, []model.PasteSummary, bool) {
	if c == nil || !c.hasUser {
		return "", nil, false
	}
	return c.userName, c.pastes, true
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, api.ErrNotFound)
}
