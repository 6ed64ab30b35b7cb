package framework

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
)

type ResourceKind string

const (
	ResourceImage  ResourceKind = "image"
	ResourceScript ResourceKind = "script"
	ResourceStyle  ResourceKind = "style"
	ResourceFetch  ResourceKind = "fetch"
)

type Resource struct {
	Href string
	As   ResourceKind
}

// Meta describes the document head of a page. It is derived from the page
// data only, so server and client agree on it.
type Meta struct {
	Title       string
	Description string
	Image       string
	Color       string
	Preload     []Resource
	Prefetch    []Resource
}

// Page is the data-loading contract of one application page. A holds the
// route arguments, D the page data and C the server side app context.
//
// FromServerContext must not do I/O: everything it needs was preloaded
// into appCtx. FromHydration reads the payload the server embedded in the
// markup and must not fall back to fetching. FromDynamic fetches over the
// network during client side navigation.
type Page[C interface{}, A interface{}, D interface{}] interface {
	FromServerContext(args A, appCtx C) (D, error)
	FromHydration(args A, root *goquery.Selection) (D, error)
	FromDynamic(ctx context.Context, args A) (D, error)
	Meta(data D) Meta
}

type PageRenderer[D interface{}] func(data D) templ.Component

type LayoutRenderer[D interface{}] func(data D, child templ.Component) templ.Component

type PageModule[C interface{}, A interface{}, D interface{}] struct {
	Name    string
	Page    Page[C, A, D]
	Render  PageRenderer[D]
	Layouts []LayoutRenderer[D]
}

// Rendered is the outcome of any of the three constructors. Data is the
// value to embed for hydration.
type Rendered struct {
	Page string
	Meta Meta
	Body templ.Component
	Data interface{}
}

// BoundPage is a page module with its route arguments applied and its
// type parameters erased, so callers can hold any page behind one type.
type BoundPage[C interface{}] interface {
	Name() string
	ServerRender(appCtx C) (Rendered, error)
	Hydrate(root *goquery.Selection) (Rendered, error)
	Load(ctx context.Context) (Rendered, error)
}

func Bind[C interface{}, A interface{}, D interface{}](module PageModule[C, A, D], args A) BoundPage[C] {
	return boundPage[C, A, D]{module: module, args: args}
}

type boundPage[C interface{}, A interface{}, D interface{}] struct {
	module PageModule[C, A, D]
	args   A
}

func (b boundPage[C, A, D]) Name() string {
	return b.module.Name
}

func (b boundPage[C, A, D]) ServerRender(appCtx C) (Rendered, error) {
	data, err := b.module.Page.FromServerContext(b.args, appCtx)
	if err != nil {
		return Rendered{}, err
	}
	return b.render(data), nil
}

func (b boundPage[C, A, D]) Hydrate(root *goquery.Selection) (Rendered, error) {
	data, err := b.module.Page.FromHydration(b.args, root)
	if err != nil {
		return Rendered{}, err
	}
	return b.render(data), nil
}

func (b boundPage[C, A, D]) Load(ctx context.Context) (Rendered, error) {
	data, err := b.module.Page.FromDynamic(ctx, b.args)
	if err != nil {
		return Rendered{}, err
	}
	return b.render(data), nil
}

func (b boundPage[C, A, D]) render(data D) Rendered {
	return Rendered{
		Page: b.module.Name,
		Meta: b.module.Page.Meta(data),
		Body: applyLayouts(b.module.Layouts, data, b.module.Render(data)),
		Data: data,
	}
}

type RuntimeContext interface {
	RenderDocument(r *http.Request, w http.ResponseWriter, rendered Rendered) error
	IsNotFound(err error) bool
	RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext NotFoundContext)
	RespondServerError(w http.ResponseWriter, r *http.Request, err error)
}

type NotFoundSource string

const (
	NotFoundSourcePageLoad       NotFoundSource = "page_load"
	NotFoundSourceUnmatchedRoute NotFoundSource = "unmatched_route"
)

type NotFoundContext struct {
	RequestPath string
	Page        string
	Source      NotFoundSource
}

// Preloader performs the I/O a page needs before FromServerContext runs.
type Preloader[C interface{}, A interface{}] func(ctx context.Context, r *http.Request, args A) (C, error)

// ServePage preloads, builds the page data from the preloaded context and
// renders the full document.
func ServePage[C interface{}, A interface{}](
	runtime RuntimeContext,
	w http.ResponseWriter,
	r *http.Request,
	page BoundPage[C],
	preload Preloader[C, A],
	args A,
) {
	appCtx, err := preload(r.Context(), r, args)
	if err != nil {
		handleLoadError(runtime, w, r, err, page.Name(), NotFoundSourcePageLoad)
		return
	}

	rendered, err := page.ServerRender(appCtx)
	if err != nil {
		handleLoadError(runtime, w, r, err, page.Name(), NotFoundSourcePageLoad)
		return
	}

	if err := runtime.RenderDocument(r, w, rendered); err != nil {
		runtime.RespondServerError(w, r, fmt.Errorf("render page %q: %w", page.Name(), err))
	}
}

func applyLayouts[D interface{}](
	layouts []LayoutRenderer[D],
	data D,
	child templ.Component,
) templ.Component {
	wrapped := child
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		wrapped = layouts[idx](data, wrapped)
	}
	return wrapped
}

func handleLoadError(
	runtime RuntimeContext,
	w http.ResponseWriter,
	r *http.Request,
	err error,
	page string,
	source NotFoundSource,
) {
	if runtime.IsNotFound(err) {
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath: r.URL.Path,
			Page:        page,
			Source:      source,
		})
		return
	}

	runtime.RespondServerError(w, r, fmt.Errorf("load page %q: %w", page, err))
}
