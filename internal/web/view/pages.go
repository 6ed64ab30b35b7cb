package view

import (
	"context"
	"fmt"
	"time"

	"pobbin/framework"
	"pobbin/internal/assets"
	"pobbin/internal/markdown"
	"pobbin/internal/model"
	"pobbin/internal/pages"

	"github.com/a-h/templ"
)

const EmptyListingText = "Nothing here"

func IndexPage(pages.IndexData) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<form class="create" method="post" action="/api/internal/paste/" data-create-paste>`)
		h.raw(`<input name="title" placeholder="Title" maxlength="200">`)
		h.raw(`<textarea name="content" required placeholder="Path of Building export code"></textarea>`)
		h.raw(`<label><input type="checkbox" name="as_user"> Save to my account</label>`)
		h.raw(`<input name="custom_id" placeholder="Custom id (optional)">`)
		h.raw(`<label><input type="checkbox" name="private"> Private</label>`)
		h.raw(`<label><input type="checkbox" name="pinned"> Pinned</label>`)
		h.raw(`<button type="submit">Create</button></form>`)
	})
}

// PastePage renders the build view shared by anonymous and user pastes.
func PastePage(rootURL string) framework.PageRenderer[pages.PasteData] {
	return func(data pages.PasteData) templ.Component {
		return pasteView(data.Paste, rootURL)
	}
}

func pasteView(paste model.Paste, rootURL string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<article class="paste">`)
		h.raw(`<header><h1>`)
		h.text(paste.DisplayTitle())
		h.raw(`</h1>`)
		if image := assets.AscendancyImage(paste.Metadata.Ascendancy); image != "" {
			h.raw(`<img width="50" height="50"`)
			h.attr("src", image)
			h.attr("alt", paste.Metadata.Ascendancy)
			h.raw(`>`)
		}
		if paste.Metadata.Version != "" {
			h.raw(`<span class="version">`)
			h.text(paste.Metadata.Version)
			h.raw(`</span>`)
		}
		h.raw(`</header><nav class="actions">`)
		link(h, paste.ID.PobOpenURL(), "Open in PoB", "Open build in Path of Building")
		link(h, paste.ID.RawURL(), "Raw", "")
		if edit := paste.ID.EditURL(); edit != "" {
			link(h, edit, "Edit", "")
		}
		h.raw(`</nav><textarea readonly class="content">`)
		h.text(paste.Content)
		h.raw(`</textarea>`)

		if notes := markdown.NotesToHTML(paste.Metadata.Notes, markdown.Options{RootURL: rootURL}); notes != "" {
			h.raw(`<section class="notes"><h3>Notes</h3>`)
			h.raw(string(notes))
			h.raw(`</section>`)
		}
		h.raw(`</article>`)
	})
}

func EditPage(data pages.EditData) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		paste := data.Paste
		h.raw(`<form class="edit" method="post" action="/api/internal/paste/" data-create-paste>`)
		h.raw(`<input type="hidden" name="as_user" value="true">`)
		h.raw(`<input type="hidden" name="id"`)
		h.attr("value", paste.ID.String())
		h.raw(`><input name="title" maxlength="200"`)
		h.attr("value", paste.Title)
		h.raw(`><textarea name="content" required>`)
		h.text(paste.Content)
		h.raw(`</textarea>`)
		checkbox(h, "private", "Private", paste.Private)
		checkbox(h, "pinned", "Pinned", paste.Pinned)
		h.raw(`<button type="submit">Save</button></form>`)
	})
}

// UserPage lists the pastes of a user. An empty listing is rendered as an
// explicit empty state.
func UserPage(data pages.UserData) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="user"><h1>`)
		h.text(data.Name)
		h.raw(`</h1>`)
		if len(data.Pastes) == 0 {
			h.raw(`<p class="empty">`)
			h.text(EmptyListingText)
			h.raw(`</p></section>`)
			return
		}

		h.raw(`<ul class="pastes">`)
		for _, summary := range data.Pastes {
			h.raw(`<li class="paste-summary">`)
			if image := assets.AscendancyImage(summary.Ascendancy); image != "" {
				h.raw(`<img width="50" height="50" onerror="this.style.visibility='hidden'"`)
				h.attr("src", image)
				h.attr("alt", summary.Ascendancy)
				h.raw(`>`)
			}
			link(h, summary.ID.URL(), summary.Title, "")
			if summary.Pinned {
				h.raw(`<span class="pinned">Pinned</span>`)
			}
			if summary.Private {
				h.raw(`<span class="private">Private</span>`)
			}
			if summary.LastModified > 0 {
				h.raw(`<time`)
				h.attr("datetime", time.Unix(summary.LastModified, 0).UTC().Format(time.RFC3339))
				h.raw(`>`)
				h.text(time.Unix(summary.LastModified, 0).UTC().Format("2006-01-02"))
				h.raw(`</time>`)
			}
			link(h, summary.ID.PobOpenURL(), "Open in PoB", "Open build in Path of Building")
			h.raw(`</li>`)
		}
		h.raw(`</ul></section>`)
	})
}

func NotFoundPage(notFoundContext framework.NotFoundContext) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="not-found"><h1>404 Not Found</h1><p>`)
		h.text(notFoundMessage(notFoundContext))
		h.raw(`</p><a href="/">Create a new paste</a></section>`)
	})
}

func notFoundMessage(notFoundContext framework.NotFoundContext) string {
	switch notFoundContext.Page {
	case "user":
		return "This user does not exist or has not signed in yet."
	case "paste", "user_paste", "edit_paste":
		return "This paste does not exist or was deleted."
	default:
		return fmt.Sprintf("Nothing lives at %s.", notFoundContext.RequestPath)
	}
}

func ErrorPage(message string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="error"><h1>Something went wrong</h1><p>`)
		h.text(message)
		h.raw(`</p></section>`)
	})
}

func link(h *htmlWriter, href string, label string, title string) {
	h.raw(`<a`)
	h.attr("href", href)
	if title != "" {
		h.attr("title", title)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

func checkbox(h *htmlWriter, name string, label string, checked bool) {
	h.raw(`<label><input type="checkbox"`)
	h.attr("name", name)
	if checked {
		h.raw(` checked`)
	}
	h.raw(`> `)
	h.text(label)
	h.raw(`</label>`)
}
