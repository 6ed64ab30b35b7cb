package pages

import (
	"context"
	"errors"
	"fmt"

	"pobbin/internal/hydrate"
	"pobbin/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// ErrMissingPreload means the server pipeline did not preload what a page
// declared it needs. It is a programming error, never a user facing one.
var ErrMissingPreload = errors.New("page data was not preloaded")

const (
	SiteName           = "pobb.in"
	defaultDescription = "Paste of Exile: share Path of Building builds"
	descriptionLength  = 160
	userPrefetchLimit  = 3
)

// API is the subset of the API client pages load their data with.
type API interface {
	GetPaste(ctx context.Context, id model.PasteID) (model.Paste, error)
	GetUser(ctx context.Context, name string) ([]model.PasteSummary, error)
	SessionUser() (string, bool)
}

func fromMarkup[D interface{}](root *goquery.Selection) (D, error) {
	var data D
	if err := hydrate.FromMarkup(root, &data); err != nil {
		return data, err
	}
	return data, nil
}

func missingPreload(page string) error {
	return fmt.Errorf("%s: %w", page, ErrMissingPreload)
}
