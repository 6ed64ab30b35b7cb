package storage

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pobbin/internal/model"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("storage: not found")

type Store interface {
	GetPaste(ctx context.Context, id model.PasteID) (model.Paste, error)
	// ListUserPastes returns ErrNotFound for users that never signed in.
	ListUserPastes(ctx context.Context, user string, includePrivate bool) ([]model.PasteSummary, error)
	PutPaste(ctx context.Context, paste model.Paste) error
	DeletePaste(ctx context.Context, id model.PasteID) error
	EnsureUser(ctx context.Context, name string) error
}

const anonymousIDLength = 10

// NewAnonymousID returns a random id that is always a valid anonymous
// paste id.
func NewAnonymousID() model.PasteID {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return model.PasteID{ID: raw[:anonymousIDLength]}
}

// sortSummaries orders pinned pastes first, then newest first.
func sortSummaries(pastes []model.PasteSummary) {
	sort.SliceStable(pastes, func(i, j int) bool {
		a, b := pastes[i], pastes[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.LastModified != b.LastModified {
			return a.LastModified > b.LastModified
		}
		return a.ID.ID < b.ID.ID
	})
}
