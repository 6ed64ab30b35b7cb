package model

import "strings"

type Metadata struct {
	Title      string `json:"title"`
	Ascendancy string `json:"ascendancy"`
	Version    string `json:"version"`
	Notes      string `json:"notes"`
}

type Paste struct {
	ID           PasteID  `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Metadata     Metadata `json:"metadata"`
	Pinned       bool     `json:"pinned"`
	Private      bool     `json:"private"`
	LastModified int64    `json:"last_modified"`
}

// DisplayTitle prefers the user supplied title and falls back to the one
// derived from the build.
func (p Paste) DisplayTitle() string {
	if title := strings.TrimSpace(p.Title); title != "" {
		return title
	}
	if title := strings.TrimSpace(p.Metadata.Title); title != "" {
		return title
	}

	return p.ID.String()
}

func (p Paste) Summary() PasteSummary {
	return PasteSummary{
		ID:           p.ID,
		Title:        p.DisplayTitle(),
		Ascendancy:   p.Metadata.Ascendancy,
		Version:      p.Metadata.Version,
		Pinned:       p.Pinned,
		Private:      p.Private,
		LastModified: p.LastModified,
	}
}

type PasteSummary struct {
	ID           PasteID `json:"id"`
	Title        string  `json:"title"`
	Ascendancy   string  `json:"ascendancy"`
	Version      string  `json:"version"`
	Pinned       bool    `json:"pinned"`
	Private      bool    `json:"private"`
	LastModified int64   `json:"last_modified"`
}
