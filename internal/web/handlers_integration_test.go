package web

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pobbin/internal/api"
	"pobbin/internal/app"
	"pobbin/internal/config"
	"pobbin/internal/metrics"
	"pobbin/internal/model"
	"pobbin/internal/site"
	"pobbin/internal/storage"
	"pobbin/internal/web/view"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fixedSessions struct {
	user string
}

func (f fixedSessions) User(*http.Request) (string, bool) {
	return f.user, f.user != ""
}

func buildCode(t *testing.T, ascendancy string) string {
	t.Helper()

	var compressed bytes.Buffer
	writer := zlib.NewWriter(&compressed)
	xml := `<PathOfBuilding><Build level="90" className="Templar" ascendClassName="` + ascendancy + `" targetVersion="3_0"/><Notes>Totems</Notes></PathOfBuilding>`
	if _, err := writer.Write([]byte(xml)); err != nil {
		t.Fatalf("compress build: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close compressor: %v", err)
	}
	return base64.URLEncoding.EncodeToString(compressed.Bytes())
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return storage.NewRedisStore(client)
}

func newTestHandler(t *testing.T, store storage.Store, user string) http.Handler {
	t.Helper()

	handler, err := NewHandler(config.Config{
		RootURL:            "https://pobb.in",
		StaticDir:          t.TempDir(),
		RateLimitPerSecond: 100,
		RateLimitBurst:     100,
	}, Dependencies{
		Store:    store,
		Sessions: fixedSessions{user: user},
		Metrics:  metrics.New(),
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func requireBody(t *testing.T, body io.Reader) string {
	t.Helper()

	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(content)
}

func performRequest(handler http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func createPaste(t *testing.T, handler http.Handler, request api.CreatePaste) model.PasteID {
	t.Helper()

	payload, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("encode create request: %v", err)
	}
	rec := performRequest(handler, http.MethodPost, "/api/internal/paste/", string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("create status: expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var id model.PasteID
	if err := json.Unmarshal(rec.Body.Bytes(), &id); err != nil {
		t.Fatalf("decode created id: %v", err)
	}
	return id
}

func newClientApp(t *testing.T, baseURL string) *app.App {
	t.Helper()

	modules := site.NewModules(api.NewClient(api.Config{BaseURL: baseURL}), "https://pobb.in")
	application, err := app.New(app.Config{Bind: modules.Bind, NotFound: view.NotFoundPage})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return application
}

func renderScreen(t *testing.T, screen app.Screen) string {
	t.Helper()

	var b bytes.Buffer
	if err := screen.Body.Render(context.Background(), &b); err != nil {
		t.Fatalf("render screen: %v", err)
	}
	return b.String()
}

func TestCreatedPasteRendersAndHydrates(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	handler := newTestHandler(t, store, "nina")

	id := createPaste(t, handler, api.CreatePaste{AsUser: true, Content: buildCode(t, "Hierophant"), Title: "Arc totems"})
	if id.User != "nina" {
		t.Fatalf("expected user scoped id, got %q", id.String())
	}

	page := performRequest(handler, http.MethodGet, id.URL(), "")
	if page.Code != http.StatusOK {
		t.Fatalf("paste page status: expected %d, got %d", http.StatusOK, page.Code)
	}
	if contentType := page.Header().Get("Content-Type"); !strings.Contains(contentType, "text/html") {
		t.Fatalf("paste page content-type: expected html, got %q", contentType)
	}
	body := requireBody(t, page.Body)
	if !strings.Contains(body, "<title>Arc totems") {
		t.Fatalf("paste page missing title, got %s", body)
	}

	application := newClientApp(t, "http://127.0.0.1:1")
	if err := application.Start(id.URL(), strings.NewReader(body)); err != nil {
		t.Fatalf("hydrate server markup: %v", err)
	}
	screen, ok := application.Current()
	if !ok || screen.Meta.Title == "" {
		t.Fatalf("expected hydrated screen, got %+v", screen)
	}
	if !strings.Contains(renderScreen(t, screen), "Arc totems") {
		t.Fatalf("hydrated screen missing paste title")
	}
}

func TestPageHeadUsesCanonicalPath(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	handler := newTestHandler(t, store, "nina")
	id := createPaste(t, handler, api.CreatePaste{AsUser: true, Content: buildCode(t, "Witch"), Title: "Cold DoT"})

	cases := []struct {
		path     string
		expected string
	}{
		{path: id.URL(), expected: "https://pobb.in" + id.URL()},
		{path: id.URL() + "/", expected: "https://pobb.in" + id.URL()},
		{path: "//u//nina", expected: "https://pobb.in/u/nina"},
		{path: id.EditURL(), expected: "https://pobb.in" + id.EditURL()},
	}
	for _, tc := range cases {
		rec := performRequest(handler, http.MethodGet, tc.path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status: expected %d, got %d", tc.path, http.StatusOK, rec.Code)
		}
		want := `<meta property="og:url" content="` + tc.expected + `">`
		if body := requireBody(t, rec.Body); !strings.Contains(body, want) {
			t.Fatalf("%s head missing %s", tc.path, want)
		}
	}

	missing := requireBody(t, performRequest(handler, http.MethodGet, "/u/ghost", "").Body)
	if strings.Contains(missing, "og:url") {
		t.Fatalf("not found page should not carry og:url")
	}
}

func TestEmptyUserListingHydratesToNothingHere(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	if err := store.EnsureUser(context.Background(), "nina"); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	handler := newTestHandler(t, store, "")

	page := performRequest(handler, http.MethodGet, "/u/nina", "")
	if page.Code != http.StatusOK {
		t.Fatalf("user page status: expected %d, got %d", http.StatusOK, page.Code)
	}

	application := newClientApp(t, "http://127.0.0.1:1")
	if err := application.Start("/u/nina", page.Body); err != nil {
		t.Fatalf("hydrate user page: %v", err)
	}
	screen, _ := application.Current()
	if !strings.Contains(renderScreen(t, screen), view.EmptyListingText) {
		t.Fatalf("expected empty listing text after hydration")
	}
}

func TestNavigationLoadsFromRunningServer(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	handler := newTestHandler(t, store, "nina")
	createPaste(t, handler, api.CreatePaste{AsUser: true, Content: buildCode(t, "Necromancer"), Title: "Minions"})

	server := httptest.NewServer(newTestHandler(t, store, ""))
	t.Cleanup(server.Close)

	application := newClientApp(t, server.URL)
	navigation, err := application.Navigate(context.Background(), "/u/nina")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if _, err := navigation.Wait(); err != nil {
		t.Fatalf("navigation failed: %v", err)
	}
	screen, _ := application.Current()
	if !strings.Contains(renderScreen(t, screen), "Minions") {
		t.Fatalf("expected dynamically loaded listing")
	}

	missing, err := application.Navigate(context.Background(), "/u/ghost")
	if err != nil {
		t.Fatalf("navigate to unknown user: %v", err)
	}
	if _, err := missing.Wait(); err != nil {
		t.Fatalf("unknown user navigation failed: %v", err)
	}
	screen, _ = application.Current()
	if !screen.NotFound {
		t.Fatalf("expected not found screen for unknown user")
	}
}

func TestHandlerNotFoundAndHealth(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	handler := newTestHandler(t, store, "")

	recHealth := performRequest(handler, http.MethodGet, "/healthz", "")
	if body := strings.TrimSpace(requireBody(t, recHealth.Body)); body != "ok" {
		t.Fatalf("healthz body: expected %q, got %q", "ok", body)
	}

	cases := []struct {
		path        string
		mustContain string
	}{
		{path: "/u/ghost", mustContain: "This user does not exist"},
		{path: "/abc123", mustContain: "This paste does not exist"},
		{path: "/u/nina/abc/edit", mustContain: "This paste does not exist"},
		{path: "/some/unknown/path", mustContain: "Nothing lives at /some/unknown/path"},
	}
	for _, tc := range cases {
		rec := performRequest(handler, http.MethodGet, tc.path, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s status: expected %d, got %d", tc.path, http.StatusNotFound, rec.Code)
		}
		body := requireBody(t, rec.Body)
		if !strings.Contains(body, tc.mustContain) {
			t.Fatalf("%s body missing %q", tc.path, tc.mustContain)
		}
		if strings.Contains(body, "data-ssr") {
			t.Fatalf("%s should not embed a payload", tc.path)
		}
	}
}

func TestPrivatePasteVisibleToOwnerOnly(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	owner := newTestHandler(t, store, "nina")
	id := createPaste(t, owner, api.CreatePaste{AsUser: true, Private: true, Content: buildCode(t, "Trickster")})

	if rec := performRequest(owner, http.MethodGet, id.URL(), ""); rec.Code != http.StatusOK {
		t.Fatalf("owner status: expected %d, got %d", http.StatusOK, rec.Code)
	}
	if rec := performRequest(owner, http.MethodGet, id.EditURL(), ""); rec.Code != http.StatusOK {
		t.Fatalf("owner edit status: expected %d, got %d", http.StatusOK, rec.Code)
	}

	stranger := newTestHandler(t, store, "mallory")
	if rec := performRequest(stranger, http.MethodGet, id.URL(), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("stranger status: expected %d, got %d", http.StatusNotFound, rec.Code)
	}
	if rec := performRequest(stranger, http.MethodGet, id.RawURL(), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("stranger raw status: expected %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestNewHandlerRequiresStore(t *testing.T) {
	if _, err := NewHandler(config.Config{}, Dependencies{}); err == nil {
		t.Fatal("expected missing store to fail")
	}
}
