package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pobbin/internal/logger"
	"pobbin/internal/metrics"
	"pobbin/internal/model"
	"pobbin/internal/route"
	"pobbin/internal/storage"

	"golang.org/x/oauth2"
)

const maxBodySize = 2 << 20

type Sessions interface {
	User(r *http.Request) (string, bool)
}

type Config struct {
	Store    storage.Store
	Sessions Sessions
	OAuth    *oauth2.Config
	RootURL  string
	Limiter  *Visitors
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// Handler serves every API endpoint of the site.
type Handler struct {
	store    storage.Store
	sessions Sessions
	oauth    *oauth2.Config
	rootURL  string
	limiter  *Visitors
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Handler{
		store:    cfg.Store,
		sessions: cfg.Sessions,
		oauth:    cfg.OAuth,
		rootURL:  cfg.RootURL,
		limiter:  cfg.Limiter,
		log:      log,
		metrics:  cfg.Metrics,
		now:      now,
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, endpoint route.Endpoint) {
	switch typed := endpoint.(type) {
	case route.Get:
		h.serveGet(w, r, typed.Endpoint)
	case route.Post:
		if !h.allow(w, r) {
			return
		}
		h.servePost(w, r, typed.Endpoint)
	case route.Delete:
		if !h.allow(w, r) {
			return
		}
		h.serveDelete(w, r, typed.Endpoint)
	default:
		panic(fmt.Sprintf("endpoints: unhandled endpoint %T", endpoint))
	}
}

func (h *Handler) serveGet(w http.ResponseWriter, r *http.Request, endpoint route.GetEndpoint) {
	switch typed := endpoint.(type) {
	case route.Oembed:
		h.oembed(w, r)
	case route.User:
		h.userPastes(w, r, typed.Name)
	case route.PasteRaw:
		h.raw(w, r, typed.ID)
	case route.UserPasteRaw:
		h.raw(w, r, typed.ID)
	case route.PasteJSON:
		h.pasteJSON(w, r, typed.ID)
	case route.UserPasteJSON:
		h.pasteJSON(w, r, typed.ID)
	case route.PobPaste:
		h.raw(w, r, typed.ID)
	case route.PobUserPaste:
		h.raw(w, r, typed.ID)
	case route.Login:
		h.login(w, r)
	case route.OAuthEntry:
		h.oauthEntry(w, r)
	default:
		panic(fmt.Sprintf("endpoints: unhandled get endpoint %T", endpoint))
	}
}

func (h *Handler) servePost(w http.ResponseWriter, r *http.Request, endpoint route.PostEndpoint) {
	switch endpoint.(type) {
	case route.CreatePaste:
		h.createPaste(w, r)
	case route.PobCreate:
		h.pobCreate(w, r)
	default:
		panic(fmt.Sprintf("endpoints: unhandled post endpoint %T", endpoint))
	}
}

func (h *Handler) serveDelete(w http.ResponseWriter, r *http.Request, endpoint route.DeleteEndpoint) {
	switch typed := endpoint.(type) {
	case route.DeletePaste:
		h.deletePaste(w, r, typed.ID)
	default:
		panic(fmt.Sprintf("endpoints: unhandled delete endpoint %T", endpoint))
	}
}

func (h *Handler) sessionUser(r *http.Request) (string, bool) {
	if h.sessions == nil {
		return "", false
	}
	return h.sessions.User(r)
}

// readPaste loads a paste and hides private pastes from everyone but the
// owner.
func (h *Handler) readPaste(r *http.Request, id model.PasteID) (model.Paste, error) {
	paste, err := h.store.GetPaste(r.Context(), id)
	if err != nil {
		return model.Paste{}, err
	}
	if paste.Private {
		if user, _ := h.sessionUser(r); !id.OwnedBy(user) {
			return model.Paste{}, fmt.Errorf("private paste %q: %w", id.String(), storage.ErrNotFound)
		}
	}
	return paste, nil
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Code: status, Message: message})
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(body))
}

// fail maps storage errors onto the JSON error shape.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}

	h.log.Error("endpoint failed",
		logger.String("path", r.URL.Path),
		logger.String("method", r.Method),
		logger.Error(err),
	)
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
