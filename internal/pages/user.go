package pages

import (
	"context"
	"fmt"

	"pobbin/framework"
	"pobbin/internal/assets"
	"pobbin/internal/model"
	"pobbin/internal/route"
	"pobbin/internal/web/appcore"

	"github.com/PuerkitoBio/goquery"
)

type UserData struct {
	Name   string               `json:"name"`
	Pastes []model.PasteSummary `json:"pastes"`
}

// User lists the public pastes of a user.
type User struct {
	API API
}

func (User) FromServerContext(args route.UserArgs, appCtx *appcore.Context) (UserData, error) {
	name, pastes, ok := appCtx.User()
	if !ok {
		return UserData{}, missingPreload(string(route.PageUser))
	}
	if name != args.Name {
		return UserData{}, fmt.Errorf("%s: preloaded %q, want %q: %w", route.PageUser, name, args.Name, ErrMissingPreload)
	}
	return newUserData(args.Name, pastes), nil
}

func (User) FromHydration(args route.UserArgs, root *goquery.Selection) (UserData, error) {
	data, err := fromMarkup[UserData](root)
	if err != nil {
		return UserData{}, err
	}
	return newUserData(args.Name, data.Pastes), nil
}

func (u User) FromDynamic(ctx context.Context, args route.UserArgs) (UserData, error) {
	pastes, err := u.API.GetUser(ctx, args.Name)
	if err != nil {
		return UserData{}, err
	}
	return newUserData(args.Name, pastes), nil
}

func (User) Meta(data UserData) framework.Meta {
	meta := framework.Meta{
		Title:       data.Name + " - " + SiteName,
		Description: fmt.Sprintf("%d Path of Building builds by %s", len(data.Pastes), data.Name),
		Image:       assets.LogoPath,
	}
	for idx, paste := range data.Pastes {
		if idx == userPrefetchLimit {
			break
		}
		meta.Prefetch = append(meta.Prefetch, framework.Resource{Href: paste.ID.JSONURL(), As: framework.ResourceFetch})
	}
	return meta
}

func newUserData(name string, pastes []model.PasteSummary) UserData {
	if pastes == nil {
		pastes = []model.PasteSummary{}
	}
	return UserData{Name: name, Pastes: pastes}
}
