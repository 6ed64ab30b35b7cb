package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"pobbin/internal/model"
)

const (
	defaultTimeout   = 15 * time.Second
	maxErrorBodySize = 64 << 10
	sessionCookie    = "session"
)

// CreatePaste is the request body of POST /api/internal/paste/. Validation
// is left to the backend.
type CreatePaste struct {
	AsUser   bool           `json:"as_user"`
	Content  string         `json:"content"`
	Title    string         `json:"title"`
	CustomID string         `json:"custom_id,omitempty"`
	ID       *model.PasteID `json:"id,omitempty"`
	Pinned   bool           `json:"pinned"`
	Private  bool           `json:"private"`
}

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	SessionToken string
	// SessionUser is the account SessionToken belongs to.
	SessionUser  string
	Transport    http.RoundTripper
}

type Client struct {
	baseURL     string
	sessionUser string
	http        *http.Client
	inFlight    atomic.Int64
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &Client{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		sessionUser: strings.TrimSpace(cfg.SessionUser),
		http: &http.Client{
			Timeout: timeout,
			Transport: &sessionTransport{
				base:  base,
				token: cfg.SessionToken,
			},
		},
	}
}

func (c *Client) SessionUser() (string, bool) {
	return c.sessionUser, c.sessionUser != ""
}

// InFlight reports how many requests are currently waiting on the network.
func (c *Client) InFlight() int64 {
	return c.inFlight.Load()
}

func (c *Client) CreatePaste(ctx context.Context, paste CreatePaste) (model.PasteID, error) {
	body, err := json.Marshal(paste)
	if err != nil {
		return model.PasteID{}, fmt.Errorf("encode create paste: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/internal/paste/", bytes.NewReader(body))
	if err != nil {
		return model.PasteID{}, err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return model.PasteID{}, errorFromResponse(resp)
	}

	var id model.PasteID
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return model.PasteID{}, fmt.Errorf("decode created paste id: %w", err)
	}
	return id, nil
}

func (c *Client) GetPaste(ctx context.Context, id model.PasteID) (model.Paste, error) {
	resp, err := c.do(ctx, http.MethodGet, id.JSONURL(), nil)
	if err != nil {
		return model.Paste{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.Paste{}, &NotFoundError{Kind: "paste", ID: id.String()}
	}
	if !ok(resp) {
		return model.Paste{}, errorFromResponse(resp)
	}

	var paste model.Paste
	if err := json.NewDecoder(resp.Body).Decode(&paste); err != nil {
		return model.Paste{}, fmt.Errorf("decode paste %q: %w", id.String(), err)
	}
	return paste, nil
}

func (c *Client) DeletePaste(ctx context.Context, id model.PasteID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/internal/paste/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return errorFromResponse(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) GetUser(ctx context.Context, name string) ([]model.PasteSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/internal/user/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Kind: "user", ID: name}
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	pastes := []model.PasteSummary{}
	if err := json.NewDecoder(resp.Body).Decode(&pastes); err != nil {
		return nil, fmt.Errorf("decode user %q pastes: %w", name, err)
	}
	if pastes == nil {
		pastes = []model.PasteSummary{}
	}
	return pastes, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body io.Reader) (*http.Response, error) {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func errorFromResponse(resp *http.Response) error {
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err == nil {
		var body ErrorBody
		if json.Unmarshal(payload, &body) == nil && body.Code != nil && body.Message != nil {
			return &Error{Code: *body.Code, Message: *body.Message}
		}
	}

	return &UnhandledStatusError{Status: resp.StatusCode, Text: statusText(resp)}
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

type sessionTransport struct {
	base  http.RoundTripper
	token string
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.AddCookie(&http.Cookie{Name: sessionCookie, Value: t.token})
	return t.base.RoundTrip(clone)
}
