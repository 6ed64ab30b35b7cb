package engine

import (
	"errors"
	"fmt"
	"net/http"

	"pobbin/framework"
	"pobbin/internal/route"
)

type Config[C interface{}] struct {
	Classify func(method string, requestPath string) route.Route
	Bind     func(args route.PageArgs) framework.BoundPage[C]
	Preload  framework.Preloader[C, route.PageArgs]

	Assets http.Handler
	API    func(w http.ResponseWriter, r *http.Request, endpoint route.Endpoint)

	RenderDocument func(r *http.Request, w http.ResponseWriter, rendered framework.Rendered) error

	IsNotFoundError   func(err error) bool
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleServerError func(w http.ResponseWriter, r *http.Request, err error)

	// Observe is called with the classified route before it is served.
	Observe func(r *http.Request, classified route.Route)
}

type Engine[C interface{}] struct {
	classify func(method string, requestPath string) route.Route
	bind     func(args route.PageArgs) framework.BoundPage[C]
	preload  framework.Preloader[C, route.PageArgs]

	assets http.Handler
	api    func(w http.ResponseWriter, r *http.Request, endpoint route.Endpoint)

	renderDocument func(r *http.Request, w http.ResponseWriter, rendered framework.Rendered) error

	isNotFound  func(err error) bool
	notFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	serverError func(w http.ResponseWriter, r *http.Request, err error)
	observe     func(r *http.Request, classified route.Route)
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.Bind == nil {
		return nil, errors.New("bind callback is required")
	}
	if cfg.Preload == nil {
		return nil, errors.New("preload callback is required")
	}
	if cfg.RenderDocument == nil {
		return nil, errors.New("render document callback is required")
	}

	classify := cfg.Classify
	if classify == nil {
		classify = route.Classify
	}

	assets := cfg.Assets
	if assets == nil {
		assets = http.NotFoundHandler()
	}

	api := cfg.API
	if api == nil {
		api = func(w http.ResponseWriter, r *http.Request, _ route.Endpoint) {
			http.NotFound(w, r)
		}
	}

	isNotFound := cfg.IsNotFoundError
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}

	notFound := cfg.HandleNotFound
	if notFound == nil {
		notFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}

	serverError := cfg.HandleServerError
	if serverError == nil {
		serverError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	observe := cfg.Observe
	if observe == nil {
		observe = func(*http.Request, route.Route) {}
	}

	return &Engine[C]{
		classify:       classify,
		bind:           cfg.Bind,
		preload:        cfg.Preload,
		assets:         assets,
		api:            api,
		renderDocument: cfg.RenderDocument,
		isNotFound:     isNotFound,
		notFound:       notFound,
		serverError:    serverError,
		observe:        observe,
	}, nil
}

// ServeHTTP classifies the request and dispatches it. This is the only
// place a Route is turned into a response.
func (engine *Engine[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	classified := engine.classify(r.Method, r.URL.Path)
	engine.observe(r, classified)

	switch typed := classified.(type) {
	case route.Asset:
		engine.assets.ServeHTTP(w, r)
	case route.API:
		engine.api(w, r, typed.Endpoint)
	case route.Application:
		framework.ServePage(engine, w, r, engine.bind(typed.Args), engine.preload, typed.Args)
	case route.NotFound:
		engine.notFound(w, r, framework.NotFoundContext{
			RequestPath: r.URL.Path,
			Source:      framework.NotFoundSourceUnmatchedRoute,
		})
	default:
		panic(fmt.Sprintf("engine: unhandled route %T", classified))
	}
}

func (engine *Engine[C]) RenderDocument(
	r *http.Request,
	w http.ResponseWriter,
	rendered framework.Rendered,
) error {
	return engine.renderDocument(r, w, rendered)
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.isNotFound(err)
}

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.notFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, r *http.Request, err error) {
	engine.serverError(w, r, err)
}
