package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pobbin/internal/api"
	"pobbin/internal/model"
	"pobbin/internal/pob"
	"pobbin/internal/storage"
)

func (h *Handler) createPaste(w http.ResponseWriter, r *http.Request) {
	var body api.CreatePaste
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	user, hasSession := h.sessionUser(r)
	if body.AsUser && !hasSession {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	if !body.AsUser && (body.CustomID != "" || body.ID != nil) {
		writeError(w, http.StatusBadRequest, "custom_id and id require as_user")
		return
	}

	build, err := pob.Decode(body.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "content is not a valid build")
		return
	}

	id, status, message := h.resolveID(r, body, user)
	if status != 0 {
		writeError(w, status, message)
		return
	}

	paste := model.Paste{
		ID:           id,
		Title:        strings.TrimSpace(body.Title),
		Content:      body.Content,
		Metadata:     build.Metadata(),
		Pinned:       body.Pinned && body.AsUser,
		Private:      body.Private && body.AsUser,
		LastModified: h.now().Unix(),
	}
	if err := h.store.PutPaste(r.Context(), paste); err != nil {
		h.fail(w, r, fmt.Errorf("store paste %q: %w", id.String(), err), "paste")
		return
	}
	if body.AsUser {
		if err := h.store.EnsureUser(r.Context(), user); err != nil {
			h.fail(w, r, fmt.Errorf("register user %q: %w", user, err), "user")
			return
		}
	}

	writeJSON(w, http.StatusOK, id)
}

// resolveID picks the id a create request writes to. A non-zero status
// means the request must be rejected.
func (h *Handler) resolveID(r *http.Request, body api.CreatePaste, user string) (model.PasteID, int, string) {
	if !body.AsUser {
		return storage.NewAnonymousID(), 0, ""
	}

	if body.ID != nil {
		if !body.ID.OwnedBy(user) {
			return model.PasteID{}, http.StatusForbidden, "paste belongs to another user"
		}
		if _, err := h.store.GetPaste(r.Context(), *body.ID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return model.PasteID{}, http.StatusNotFound, "paste not found"
			}
			return model.PasteID{}, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
		}
		return *body.ID, 0, ""
	}

	if body.CustomID != "" {
		id, err := model.NewUserPasteID(user, body.CustomID)
		if err != nil {
			return model.PasteID{}, http.StatusBadRequest, "invalid custom_id"
		}
		_, err = h.store.GetPaste(r.Context(), id)
		switch {
		case err == nil:
			return model.PasteID{}, http.StatusConflict, "custom_id already in use"
		case !errors.Is(err, storage.ErrNotFound):
			return model.PasteID{}, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
		}
		return id, 0, ""
	}

	return model.PasteID{User: user, ID: storage.NewAnonymousID().ID}, 0, ""
}

func (h *Handler) pobCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}
	content := strings.TrimSpace(string(raw))
	build, err := pob.Decode(content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "content is not a valid build")
		return
	}

	paste := model.Paste{
		ID:           storage.NewAnonymousID(),
		Content:      content,
		Metadata:     build.Metadata(),
		LastModified: h.now().Unix(),
	}
	if err := h.store.PutPaste(r.Context(), paste); err != nil {
		h.fail(w, r, fmt.Errorf("store pob paste: %w", err), "paste")
		return
	}

	writeText(w, h.rootURL+paste.ID.URL())
}

func (h *Handler) deletePaste(w http.ResponseWriter, r *http.Request, id model.PasteID) {
	user, ok := h.sessionUser(r)
	if !ok || !id.OwnedBy(user) {
		writeError(w, http.StatusForbidden, "paste belongs to another user")
		return
	}

	if err := h.store.DeletePaste(r.Context(), id); err != nil {
		h.fail(w, r, err, "paste")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
}
