package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"pobbin/framework"
	"pobbin/internal/api"
	"pobbin/internal/logger"
	"pobbin/internal/metrics"
	"pobbin/internal/nav"
	"pobbin/internal/route"
	"pobbin/internal/web/appcore"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
)

// Screen is what the client currently displays.
type Screen struct {
	Path     string
	Page     string
	Meta     framework.Meta
	Body     templ.Component
	NotFound bool
}

type Config struct {
	Bind     func(args route.PageArgs) framework.BoundPage[*appcore.Context]
	NotFound func(notFoundContext framework.NotFoundContext) templ.Component
	Logger   logger.Logger
	Metrics  *metrics.Metrics
}

// App is the client side of the site: it hydrates the first page from the
// server markup and loads every following page over the API.
type App struct {
	bind     func(args route.PageArgs) framework.BoundPage[*appcore.Context]
	notFound func(notFoundContext framework.NotFoundContext) templ.Component
	log      logger.Logger
	slot     *nav.Slot[Screen]
}

func New(cfg Config) (*App, error) {
	if cfg.Bind == nil {
		return nil, errors.New("bind callback is required")
	}
	if cfg.NotFound == nil {
		return nil, errors.New("not found renderer is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	var opts []nav.Option[Screen]
	if cfg.Metrics != nil {
		opts = append(opts, nav.WithObserver[Screen](func(outcome nav.Outcome) {
			cfg.Metrics.ObserveNavigation(string(outcome))
		}))
	}

	return &App{
		bind:     cfg.Bind,
		notFound: cfg.NotFound,
		log:      log,
		slot:     nav.NewSlot(opts...),
	}, nil
}

// Start hydrates the page at path from the markup the server sent. It
// never touches the network.
func (a *App) Start(path string, markup io.Reader) error {
	args, err := pageArgs(path)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return fmt.Errorf("parse markup of %s: %w", path, err)
	}

	page := a.bind(args)
	rendered, err := page.Hydrate(doc.Selection)
	if err != nil {
		return fmt.Errorf("hydrate page %q: %w", page.Name(), err)
	}

	a.slot.Set(screenFor(path, rendered))
	return nil
}

// Navigate starts loading the page at path. The current screen stays in
// place until the load is applied; a newer Navigate discards this one.
func (a *App) Navigate(ctx context.Context, path string) (*nav.Navigation, error) {
	args, err := pageArgs(path)
	if err != nil {
		return nil, err
	}

	page := a.bind(args)
	return a.slot.Navigate(ctx, func(ctx context.Context) (Screen, error) {
		rendered, err := page.Load(ctx)
		if err == nil {
			return screenFor(path, rendered), nil
		}

		var notFound *api.NotFoundError
		if errors.As(err, &notFound) {
			return a.notFoundScreen(path, page.Name()), nil
		}

		if ctx.Err() == nil {
			a.log.Warn("navigation failed",
				logger.String("path", path),
				logger.String("page", page.Name()),
				logger.Error(err),
			)
		}
		return Screen{}, fmt.Errorf("load page %q: %w", page.Name(), err)
	}), nil
}

func (a *App) Current() (Screen, bool) {
	state := a.slot.State()
	return state.Current, state.HasCurrent
}

func (a *App) State() nav.State[Screen] {
	return a.slot.State()
}

func (a *App) notFoundScreen(path string, page string) Screen {
	notFoundContext := framework.NotFoundContext{
		RequestPath: path,
		Page:        page,
		Source:      framework.NotFoundSourcePageLoad,
	}
	return Screen{
		Path:     path,
		Page:     page,
		Meta:     framework.Meta{Title: "Not Found"},
		Body:     a.notFound(notFoundContext),
		NotFound: true,
	}
}

func pageArgs(path string) (route.PageArgs, error) {
	application, ok := route.Classify(http.MethodGet, path).(route.Application)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, route.ErrRouteNotFound)
	}
	return application.Args, nil
}

func screenFor(path string, rendered framework.Rendered) Screen {
	return Screen{
		Path: path,
		Page: rendered.Page,
		Meta: rendered.Meta,
		Body: rendered.Body,
	}
}
