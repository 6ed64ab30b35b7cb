package route

import (
	"errors"
	"net/http"

	"pobbin/internal/assets"
)

var ErrRouteNotFound = errors.New("route not found")

type Kind string

const (
	KindApplication Kind = "application"
	KindAPI         Kind = "api"
	KindAsset       Kind = "asset"
	KindNotFound    Kind = "not_found"
)

// Route is closed over Application, API, Asset and NotFound.
type Route interface {
	Kind() Kind
	isRoute()
}

type Application struct{ Args PageArgs }

type API struct{ Endpoint Endpoint }

type Asset struct{}

type NotFound struct{}

func (Application) Kind() Kind { return KindApplication }
func (API) Kind() Kind         { return KindAPI }
func (Asset) Kind() Kind       { return KindAsset }
func (NotFound) Kind() Kind    { return KindNotFound }

func (a Application) Page() PageID { return a.Args.PageID() }

func (Application) isRoute() {}
func (API) isRoute()         {}
func (Asset) isRoute()       {}
func (NotFound) isRoute()    {}

// Router composes the application table with one endpoint table per
// method.
type Router struct {
	isAsset func(requestPath string) bool
	app     table[PageArgs]
	get     table[GetEndpoint]
	post    table[PostEndpoint]
	delete  table[DeleteEndpoint]
}

var defaultRouter = Router{
	isAsset: assets.IsAssetPath,
	app:     appPages,
	get:     getEndpoints,
	post:    postEndpoints,
	delete:  deleteEndpoints,
}

// Classify maps a request onto exactly one Route using the site tables.
func Classify(method string, requestPath string) Route {
	return defaultRouter.Classify(method, requestPath)
}

// Classify checks, in order: assets (GET only), application pages (GET
// only), then the endpoint table of the method. A GET path that is both an
// application page and an API endpoint is always the page.
func (router Router) Classify(method string, requestPath string) Route {
	if method == http.MethodGet {
		if router.isAsset != nil && router.isAsset(requestPath) {
			return Asset{}
		}
		if args, ok := router.app.match(requestPath); ok {
			return Application{Args: args}
		}
	}

	switch method {
	case http.MethodGet:
		if endpoint, ok := router.get.match(requestPath); ok {
			return API{Endpoint: Get{Endpoint: endpoint}}
		}
	case http.MethodPost:
		if endpoint, ok := router.post.match(requestPath); ok {
			return API{Endpoint: Post{Endpoint: endpoint}}
		}
	case http.MethodDelete:
		if endpoint, ok := router.delete.match(requestPath); ok {
			return API{Endpoint: Delete{Endpoint: endpoint}}
		}
	}

	return NotFound{}
}

type TableInfo struct {
	Name     string
	Patterns []string
}

// Tables lists every pattern in declaration order, application table first.
func Tables() []TableInfo {
	return []TableInfo{
		{Name: appPages.name, Patterns: appPages.patterns()},
		{Name: getEndpoints.name, Patterns: getEndpoints.patterns()},
		{Name: postEndpoints.name, Patterns: postEndpoints.patterns()},
		{Name: deleteEndpoints.name, Patterns: deleteEndpoints.patterns()},
	}
}
