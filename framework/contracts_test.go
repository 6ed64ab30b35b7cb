package framework

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
)

type componentFunc func(ctx context.Context, w io.Writer) error

func (f componentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

func textComponent(value string) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, value)
		return err
	})
}

func renderString(t *testing.T, component templ.Component) string {
	t.Helper()

	var b strings.Builder
	if err := component.Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

var errGone = errors.New("gone")

type counterPage struct {
	loads int
}

func (p *counterPage) FromServerContext(args string, appCtx map[string]int) (int, error) {
	value, ok := appCtx[args]
	if !ok {
		return 0, errGone
	}
	return value, nil
}

func (p *counterPage) FromHydration(_ string, root *goquery.Selection) (int, error) {
	return root.Find("li").Length(), nil
}

func (p *counterPage) FromDynamic(_ context.Context, args string) (int, error) {
	p.loads++
	return len(args), nil
}

func (p *counterPage) Meta(data int) Meta {
	return Meta{Title: strings.Repeat("*", data)}
}

func counterModule(page *counterPage) PageModule[map[string]int, string, int] {
	return PageModule[map[string]int, string, int]{
		Name:   "counter",
		Page:   page,
		Render: func(data int) templ.Component { return textComponent(strings.Repeat("x", data)) },
		Layouts: []LayoutRenderer[int]{
			func(_ int, child templ.Component) templ.Component {
				return componentFunc(func(ctx context.Context, w io.Writer) error {
					if _, err := io.WriteString(w, "<outer>"); err != nil {
						return err
					}
					if err := child.Render(ctx, w); err != nil {
						return err
					}
					_, err := io.WriteString(w, "</outer>")
					return err
				})
			},
			func(_ int, child templ.Component) templ.Component {
				return componentFunc(func(ctx context.Context, w io.Writer) error {
					if _, err := io.WriteString(w, "<inner>"); err != nil {
						return err
					}
					if err := child.Render(ctx, w); err != nil {
						return err
					}
					_, err := io.WriteString(w, "</inner>")
					return err
				})
			},
		},
	}
}

func TestBoundPageConstructorsShareRendering(t *testing.T) {
	page := &counterPage{}
	bound := Bind(counterModule(page), "abc")

	fromServer, err := bound.ServerRender(map[string]int{"abc": 3})
	if err != nil {
		t.Fatalf("server render: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<ul><li></li><li></li><li></li></ul>"))
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	fromHydration, err := bound.Hydrate(doc.Selection)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	fromDynamic, err := bound.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, rendered := range []Rendered{fromServer, fromHydration, fromDynamic} {
		if rendered.Page != "counter" || rendered.Meta.Title != "***" || rendered.Data != 3 {
			t.Fatalf("unexpected rendered page %+v", rendered)
		}
		if got := renderString(t, rendered.Body); got != "<outer><inner>xxx</inner></outer>" {
			t.Fatalf("expected layouts applied outermost first, got %q", got)
		}
	}
	if page.loads != 1 {
		t.Fatalf("expected exactly one dynamic load, got %d", page.loads)
	}
}

type fakeRuntime struct {
	rendered  []Rendered
	notFound  []NotFoundContext
	errs      []error
	renderErr error
}

func (f *fakeRuntime) RenderDocument(_ *http.Request, _ http.ResponseWriter, rendered Rendered) error {
	f.rendered = append(f.rendered, rendered)
	return f.renderErr
}

func (f *fakeRuntime) IsNotFound(err error) bool {
	return errors.Is(err, errGone)
}

func (f *fakeRuntime) RespondNotFound(_ http.ResponseWriter, _ *http.Request, notFoundContext NotFoundContext) {
	f.notFound = append(f.notFound, notFoundContext)
}

func (f *fakeRuntime) RespondServerError(_ http.ResponseWriter, _ *http.Request, err error) {
	f.errs = append(f.errs, err)
}

func TestServePage(t *testing.T) {
	preload := func(_ context.Context, _ *http.Request, args string) (map[string]int, error) {
		if args == "broken" {
			return nil, errors.New("backend down")
		}
		return map[string]int{"abc": 2}, nil
	}

	tests := []struct {
		name      string
		args      string
		renderErr error
		rendered  int
		notFound  int
		errs      int
	}{
		{name: "rendered", args: "abc", rendered: 1},
		{name: "missing data is not found", args: "zzz", notFound: 1},
		{name: "preload failure", args: "broken", errs: 1},
		{name: "render failure", args: "abc", renderErr: errors.New("closed"), rendered: 1, errs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime := &fakeRuntime{renderErr: tt.renderErr}
			bound := Bind(counterModule(&counterPage{}), tt.args)
			request := httptest.NewRequest(http.MethodGet, "/counter/"+tt.args, nil)

			ServePage(runtime, httptest.NewRecorder(), request, bound, preload, tt.args)

			if len(runtime.rendered) != tt.rendered || len(runtime.notFound) != tt.notFound || len(runtime.errs) != tt.errs {
				t.Fatalf("unexpected outcome: rendered=%d notFound=%d errs=%d", len(runtime.rendered), len(runtime.notFound), len(runtime.errs))
			}
			if tt.notFound == 1 {
				got := runtime.notFound[0]
				if got.Page != "counter" || got.Source != NotFoundSourcePageLoad || got.RequestPath != "/counter/zzz" {
					t.Fatalf("unexpected not found context %+v", got)
				}
			}
		})
	}
}
