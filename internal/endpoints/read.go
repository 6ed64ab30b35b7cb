package endpoints

import (
	"net/http"
	"net/url"
	"strings"

	"pobbin/internal/assets"
	"pobbin/internal/model"
	"pobbin/internal/route"
)

type oembedResponse struct {
	Version      string `json:"version"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

func (h *Handler) oembed(w http.ResponseWriter, r *http.Request) {
	target, err := url.Parse(strings.TrimSpace(r.URL.Query().Get("url")))
	if err != nil || target.Path == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	var id model.PasteID
	args, ok := route.MatchPage(target.Path)
	switch typed := args.(type) {
	case route.PasteArgs:
		id = typed.ID
	case route.UserPasteArgs:
		id = typed.ID
	default:
		ok = false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "paste not found")
		return
	}

	paste, err := h.readPaste(r, id)
	if err != nil {
		h.fail(w, r, err, "paste")
		return
	}

	response := oembedResponse{
		Version:      "1.0",
		Type:         "link",
		Title:        paste.DisplayTitle(),
		ProviderName: "pobb.in",
		ProviderURL:  h.rootURL + "/",
	}
	if image := assets.AscendancyImage(paste.Metadata.Ascendancy); image != "" {
		response.ThumbnailURL = h.rootURL + image
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) userPastes(w http.ResponseWriter, r *http.Request, name string) {
	sessionUser, _ := h.sessionUser(r)
	pastes, err := h.store.ListUserPastes(r.Context(), name, sessionUser == name)
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, pastes)
}

func (h *Handler) raw(w http.ResponseWriter, r *http.Request, id model.PasteID) {
	paste, err := h.readPaste(r, id)
	if err != nil {
		h.fail(w, r, err, "paste")
		return
	}
	writeText(w, paste.Content)
}

func (h *Handler) pasteJSON(w http.ResponseWriter, r *http.Request, id model.PasteID) {
	paste, err := h.readPaste(r, id)
	if err != nil {
		h.fail(w, r, err, "paste")
		return
	}
	writeJSON(w, http.StatusOK, paste)
}
