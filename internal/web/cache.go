package web

import (
	"strings"

	"pobbin/framework/httpserver"
	"pobbin/internal/config"
)

// cachePolicies applies the configured overrides on top of the server
// defaults. Pages depend on the session, so HTML is never shared by default.
func cachePolicies(cfg config.Config) httpserver.CachePolicies {
	policies := httpserver.DefaultCachePolicies()
	if html := strings.TrimSpace(cfg.CacheHTML); html != "" {
		policies.HTML = html
	}
	if static := strings.TrimSpace(cfg.CacheStatic); static != "" {
		policies.Static = static
	}
	return policies
}
