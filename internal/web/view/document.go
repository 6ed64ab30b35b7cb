package view

import (
	"context"
	"net/url"

	"pobbin/framework"
	"pobbin/internal/assets"
	"pobbin/internal/hydrate"
	"pobbin/internal/markdown"

	"github.com/a-h/templ"
)

const (
	siteTitle       = "Paste of Exile - pobb.in"
	defaultColor    = "#0ea5e9"
	appScriptPath   = assets.Prefix + "app.js"
	appStylePath    = assets.Prefix + "app.css"
	oembedLinkType  = "application/json+oembed"
	MarkerElementID = "app"
)

type DocumentOptions struct {
	RootURL     string
	SessionUser string
	// Path is the canonical path of the rendered page. Empty for error pages.
	Path        string
}

// Document renders the full page shell. payload is placed verbatim on the
// single marker node; an empty payload leaves the attribute out.
func Document(meta framework.Meta, body templ.Component, payload string, opts DocumentOptions) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.render(ctx, Head(meta, opts.RootURL, opts.Path))
		h.raw(`<link rel="stylesheet"`)
		h.attr("href", appStylePath)
		h.raw(`><style>`, markdown.HighlightCSS(), `</style></head><body>`)
		h.render(ctx, navigation(opts.SessionUser))
		h.raw(`<main`)
		h.attr("id", MarkerElementID)
		if payload != "" {
			h.attr(hydrate.Attribute, payload)
		}
		h.raw(`>`)
		h.render(ctx, body)
		h.raw(`</main><script defer`)
		h.attr("src", appScriptPath)
		h.raw(`></script></body></html>`)
	})
}

func Head(meta framework.Meta, rootURL string, canonicalPath string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		image := meta.Image
		if image == "" {
			image = assets.LogoPath
		}
		color := meta.Color
		if color == "" {
			color = defaultColor
		}

		h.raw(`<title>`)
		h.text(meta.Title)
		h.raw(`</title>`)
		metaTag(h, "name", "title", meta.Title)
		metaTag(h, "name", "description", meta.Description)
		metaTag(h, "property", "og:type", "website")
		metaTag(h, "property", "og:site_name", siteTitle)
		metaTag(h, "property", "og:title", meta.Title)
		metaTag(h, "property", "og:description", meta.Description)
		metaTag(h, "property", "og:image", rootURL+image)
		if canonicalPath != "" {
			metaTag(h, "property", "og:url", rootURL+canonicalPath)
			h.raw(`<link rel="alternate"`)
			h.attr("type", oembedLinkType)
			h.attr("href", rootURL+"/oembed.json?url="+url.QueryEscape(rootURL+canonicalPath))
			h.raw(`>`)
		}
		metaTag(h, "name", "theme-color", color)

		for _, resource := range meta.Preload {
			h.raw(`<link rel="preload"`)
			h.attr("href", resource.Href)
			h.attr("as", string(resource.As))
			h.raw(`>`)
		}
		for _, resource := range meta.Prefetch {
			h.raw(`<link rel="prefetch"`)
			h.attr("href", resource.Href)
			h.raw(`>`)
		}
	})
}

func metaTag(h *htmlWriter, key string, name string, content string) {
	h.raw(`<meta`)
	h.attr(key, name)
	h.attr("content", content)
	h.raw(`>`)
}

func navigation(sessionUser string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<header class="nav"><a href="/" class="brand">pobb.in</a>`)
		if sessionUser == "" {
			h.raw(`<a href="/login">Login</a>`)
		} else {
			h.raw(`<a`)
			h.attr("href", "/u/"+sessionUser)
			h.raw(`>`)
			h.text(sessionUser)
			h.raw(`</a>`)
		}
		h.raw(`</header>`)
	})
}
