package web

import (
	"errors"
	"fmt"
	"net/http"

	"pobbin/framework"
	"pobbin/framework/httpserver"
	"pobbin/internal/config"
	"pobbin/internal/endpoints"
	"pobbin/internal/logger"
	"pobbin/internal/metrics"
	"pobbin/internal/pages"
	"pobbin/internal/route"
	"pobbin/internal/site"
	"pobbin/internal/storage"
	"pobbin/internal/web/appcore"
	"pobbin/internal/web/view"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel/trace"
)

type Sessions interface {
	User(r *http.Request) (string, bool)
}

type Dependencies struct {
	Store    storage.Store
	Sessions Sessions
	// API serves dynamic page loads. The server itself renders from the
	// store, so only the page modules hold on to it.
	API     pages.API
	Logger  logger.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer
}

// NewHandler assembles the whole site: pages, endpoints, assets, health
// and metrics behind one router.
func NewHandler(cfg config.Config, deps Dependencies) (http.Handler, error) {
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}

	sessions := deps.Sessions
	if sessions == nil {
		sessions = anonymous{}
	}

	modules := site.NewModules(deps.API, cfg.RootURL)
	preloader := appcore.NewPreloader(deps.Store, sessions.User)
	api := endpoints.New(endpoints.Config{
		Store:    deps.Store,
		Sessions: sessions,
		OAuth:    cfg.OAuth(),
		RootURL:  cfg.RootURL,
		Limiter:  endpoints.NewVisitors(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:   log,
		Metrics:  deps.Metrics,
	})

	documentOptions := func(r *http.Request, canonicalPath string) view.DocumentOptions {
		user, _ := sessions.User(r)
		return view.DocumentOptions{RootURL: cfg.RootURL, SessionUser: user, Path: canonicalPath}
	}

	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		Bind:          modules.Bind,
		Preload:       preloader.Preload,
		API:           api.Serve,
		StaticDir:     cfg.StaticDir,
		CachePolicies: cachePolicies(cfg),
		Document: func(r *http.Request, rendered framework.Rendered, payload string) templ.Component {
			return view.Document(rendered.Meta, rendered.Body, payload, documentOptions(r, canonicalPath(r.URL.Path)))
		},
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage: func(r *http.Request, notFoundContext framework.NotFoundContext) templ.Component {
			meta := framework.Meta{Title: "Not Found - " + pages.SiteName}
			return view.Document(meta, view.NotFoundPage(notFoundContext), "", documentOptions(r, ""))
		},
		ErrorPage: func(r *http.Request, _ error) templ.Component {
			meta := framework.Meta{Title: "Error - " + pages.SiteName}
			return view.Document(meta, view.ErrorPage("The build could not be loaded. Try again in a moment."), "", documentOptions(r, ""))
		},
		Logger:  log,
		Metrics: deps.Metrics,
		Tracer:  deps.Tracer,
	})
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}

	return handler, nil
}

// canonicalPath is the path a page is shared under, with redundant slashes
// removed.
func canonicalPath(requestPath string) string {
	args, ok := route.MatchPage(requestPath)
	if !ok {
		return ""
	}
	return args.Path()
}

type anonymous struct{}

func (anonymous) User(*http.Request) (string, bool) {
	return "", false
}
