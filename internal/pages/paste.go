package pages

import (
	"context"
	"fmt"
	"strings"

	"pobbin/framework"
	"pobbin/internal/api"
	"pobbin/internal/assets"
	"pobbin/internal/markdown"
	"pobbin/internal/model"
	"pobbin/internal/route"
	"pobbin/internal/web/appcore"

	"github.com/PuerkitoBio/goquery"
)

type PasteData struct {
	Paste model.Paste `json:"paste"`
}

// Paste shows an anonymous paste.
type Paste struct {
	API API
}

func (Paste) FromServerContext(args route.PasteArgs, appCtx *appcore.Context) (PasteData, error) {
	return pasteFromContext(string(route.PagePaste), args.ID, appCtx)
}

func (Paste) FromHydration(args route.PasteArgs, root *goquery.Selection) (PasteData, error) {
	return pasteFromMarkup(args.ID, root)
}

func (p Paste) FromDynamic(ctx context.Context, args route.PasteArgs) (PasteData, error) {
	return pasteFromAPI(ctx, p.API, args.ID)
}

func (Paste) Meta(data PasteData) framework.Meta {
	return pasteMeta(data.Paste)
}

// UserPaste shows a paste owned by a user.
type UserPaste struct {
	API API
}

func (UserPaste) FromServerContext(args route.UserPasteArgs, appCtx *appcore.Context) (PasteData, error) {
	return pasteFromContext(string(route.PageUserPaste), args.ID, appCtx)
}

func (UserPaste) FromHydration(args route.UserPasteArgs, root *goquery.Selection) (PasteData, error) {
	return pasteFromMarkup(args.ID, root)
}

func (p UserPaste) FromDynamic(ctx context.Context, args route.UserPasteArgs) (PasteData, error) {
	return pasteFromAPI(ctx, p.API, args.ID)
}

func (UserPaste) Meta(data PasteData) framework.Meta {
	meta := pasteMeta(data.Paste)
	meta.Prefetch = append(meta.Prefetch, framework.Resource{
		Href: "/api/internal/user/" + data.Paste.ID.User,
		As:   framework.ResourceFetch,
	})
	return meta
}

type EditData struct {
	Paste model.Paste `json:"paste"`
}

// Edit is the edit form of a user paste.
type Edit struct {
	API API
}

func (Edit) FromServerContext(args route.EditPasteArgs, appCtx *appcore.Context) (EditData, error) {
	user, _ := appCtx.SessionUser()
	if !args.ID.OwnedBy(user) {
		return EditData{}, editNotFound(args.ID)
	}
	data, err := pasteFromContext(string(route.PageEditPaste), args.ID, appCtx)
	return EditData(data), err
}

func (Edit) FromHydration(args route.EditPasteArgs, root *goquery.Selection) (EditData, error) {
	data, err := fromMarkup[EditData](root)
	if err != nil {
		return EditData{}, err
	}
	data.Paste.ID = args.ID
	return data, nil
}

func (e Edit) FromDynamic(ctx context.Context, args route.EditPasteArgs) (EditData, error) {
	user, _ := e.API.SessionUser()
	if !args.ID.OwnedBy(user) {
		return EditData{}, editNotFound(args.ID)
	}
	data, err := pasteFromAPI(ctx, e.API, args.ID)
	return EditData(data), err
}

func (Edit) Meta(data EditData) framework.Meta {
	meta := pasteMeta(data.Paste)
	meta.Title = "Edit " + meta.Title
	return meta
}

// editNotFound hides pastes the caller does not own.
func editNotFound(id model.PasteID) error {
	return &api.NotFoundError{Kind: "paste", ID: id.String()}
}

func pasteFromContext(page string, id model.PasteID, appCtx *appcore.Context) (PasteData, error) {
	paste, ok := appCtx.Paste()
	if !ok {
		return PasteData{}, missingPreload(page)
	}
	if paste.ID != id {
		return PasteData{}, fmt.Errorf("%s: preloaded %q, want %q: %w", page, paste.ID.String(), id.String(), ErrMissingPreload)
	}
	return PasteData{Paste: paste}, nil
}

func pasteFromMarkup(id model.PasteID, root *goquery.Selection) (PasteData, error) {
	data, err := fromMarkup[PasteData](root)
	if err != nil {
		return PasteData{}, err
	}
	data.Paste.ID = id
	return data, nil
}

func pasteFromAPI(ctx context.Context, client API, id model.PasteID) (PasteData, error) {
	paste, err := client.GetPaste(ctx, id)
	if err != nil {
		return PasteData{}, err
	}
	paste.ID = id
	return PasteData{Paste: paste}, nil
}

func pasteMeta(paste model.Paste) framework.Meta {
	ascendancy := paste.Metadata.Ascendancy
	meta := framework.Meta{
		Title:       paste.DisplayTitle(),
		Description: markdown.Excerpt(paste.Metadata.Notes, descriptionLength),
		Image:       assets.AscendancyImage(ascendancy),
		Color:       assets.AscendancyColor(ascendancy),
	}
	if meta.Description == "" {
		meta.Description = buildSummary(paste.Metadata)
	}
	if meta.Image != "" {
		meta.Preload = append(meta.Preload, framework.Resource{Href: meta.Image, As: framework.ResourceImage})
	}
	return meta
}

func buildSummary(metadata model.Metadata) string {
	parts := make([]string, 0, 3)
	if metadata.Ascendancy != "" {
		parts = append(parts, metadata.Ascendancy)
	}
	parts = append(parts, "build")
	if metadata.Version != "" {
		parts = append(parts, "for "+strings.ReplaceAll(metadata.Version, "_", "."))
	}
	return strings.Join(parts, " ")
}
