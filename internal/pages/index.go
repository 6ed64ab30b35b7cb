package pages

import (
	"context"

	"pobbin/framework"
	"pobbin/internal/assets"
	"pobbin/internal/route"
	"pobbin/internal/web/appcore"

	"github.com/PuerkitoBio/goquery"
)

type IndexData struct{}

// Index is the paste creation form. It needs no data.
type Index struct{}

func (Index) FromServerContext(route.IndexArgs, *appcore.Context) (IndexData, error) {
	return IndexData{}, nil
}

func (Index) FromHydration(_ route.IndexArgs, root *goquery.Selection) (IndexData, error) {
	return fromMarkup[IndexData](root)
}

func (Index) FromDynamic(context.Context, route.IndexArgs) (IndexData, error) {
	return IndexData{}, nil
}

func (Index) Meta(IndexData) framework.Meta {
	return framework.Meta{
		Title:       SiteName,
		Description: defaultDescription,
		Image:       assets.LogoPath,
	}
}
