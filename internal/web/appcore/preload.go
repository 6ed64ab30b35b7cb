package appcore

import (
	"context"
	"fmt"
	"net/http"

	"pobbin/internal/model"
	"pobbin/internal/route"
	"pobbin/internal/storage"
)

type SessionReader func(r *http.Request) (string, bool)

// Preloader performs all storage reads for a server rendered page.
type Preloader struct {
	store   storage.Store
	session SessionReader
}

func NewPreloader(store storage.Store, session SessionReader) *Preloader {
	if session == nil {
		session = func(*http.Request) (string, bool) { return "", false }
	}
	return &Preloader{store: store, session: session}
}

func (p *Preloader) Preload(ctx context.Context, r *http.Request, args route.PageArgs) (*Context, error) {
	sessionUser, _ := p.session(r)
	appCtx := NewContext(sessionUser)

	switch typed := args.(type) {
	case route.IndexArgs:
		return appCtx, nil
	case route.PasteArgs:
		return p.withPaste(ctx, appCtx, typed.ID, sessionUser)
	case route.UserPasteArgs:
		return p.withPaste(ctx, appCtx, typed.ID, sessionUser)
	case route.EditPasteArgs:
		if !typed.ID.OwnedBy(sessionUser) {
			return nil, fmt.Errorf("edit %q as %q: %w", typed.ID.String(), sessionUser, storage.ErrNotFound)
		}
		return p.withPaste(ctx, appCtx, typed.ID, sessionUser)
	case route.UserArgs:
		pastes, err := p.store.ListUserPastes(ctx, typed.Name, sessionUser == typed.Name)
		if err != nil {
			return nil, err
		}
		return appCtx.WithUser(typed.Name, pastes), nil
	default:
		panic(fmt.Sprintf("appcore: unhandled page args %T", args))
	}
}

func (p *Preloader) withPaste(ctx context.Context, appCtx *Context, id model.PasteID, sessionUser string) (*Context, error) {
	paste, err := p.store.GetPaste(ctx, id)
	if err != nil {
		return nil, err
	}
	if paste.Private && !id.OwnedBy(sessionUser) {
		return nil, fmt.Errorf("private paste %q: %w", id.String(), storage.ErrNotFound)
	}
	return appCtx.WithPaste(paste), nil
}
