package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pobbin/framework"
	"pobbin/framework/engine"
	"pobbin/internal/hydrate"
	"pobbin/internal/logger"
	"pobbin/internal/metrics"
	"pobbin/internal/route"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultCacheControlPolicy = "public, max-age=3600, s-maxage=3600"
const noStorePolicy = "no-store"
const defaultHealthPath = "/healthz"
const defaultHealthBody = "ok"
const defaultMetricsPath = "/metrics"
const tracerName = "pobbin/httpserver"
const internalKind = "internal"

type CachePolicies struct {
	HTML   string
	Static string
	Health string
	Error  string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		HTML:   noStorePolicy,
		Static: defaultCacheControlPolicy,
		Health: noStorePolicy,
		Error:  noStorePolicy,
	}
}

type Config[C interface{}] struct {
	Bind    func(args route.PageArgs) framework.BoundPage[C]
	Preload framework.Preloader[C, route.PageArgs]
	API     func(w http.ResponseWriter, r *http.Request, endpoint route.Endpoint)

	// StaticDir is served for every path classified as an asset.
	StaticDir string

	CachePolicies CachePolicies

	Document        func(r *http.Request, rendered framework.Rendered, payload string) templ.Component
	IsNotFoundError func(err error) bool
	NotFoundPage    func(r *http.Request, notFoundContext framework.NotFoundContext) templ.Component
	ErrorPage       func(r *http.Request, err error) templ.Component

	Logger  logger.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer

	HealthPath string
	HealthBody string
}

type server[C interface{}] struct {
	cachePolicies CachePolicies
	document      func(r *http.Request, rendered framework.Rendered, payload string) templ.Component
	notFoundPage  func(r *http.Request, notFoundContext framework.NotFoundContext) templ.Component
	errorPage     func(r *http.Request, err error) templ.Component
	log           logger.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	healthBody    string
}

func New[C interface{}](cfg Config[C]) (http.Handler, error) {
	if cfg.Document == nil {
		return nil, fmt.Errorf("document renderer is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	healthBody := strings.TrimSpace(cfg.HealthBody)
	if healthBody == "" {
		healthBody = defaultHealthBody
	}

	srv := &server[C]{
		cachePolicies: withDefaultPolicies(cfg.CachePolicies),
		document:      cfg.Document,
		notFoundPage:  cfg.NotFoundPage,
		errorPage:     cfg.ErrorPage,
		log:           log,
		metrics:       cfg.Metrics,
		tracer:        tracer,
		healthBody:    healthBody,
	}

	var assets http.Handler
	if strings.TrimSpace(cfg.StaticDir) != "" {
		assets = withCachePolicy(srv.cachePolicies.Static, http.FileServer(http.Dir(cfg.StaticDir)))
	}

	routeEngine, err := engine.New(engine.Config[C]{
		Bind:              cfg.Bind,
		Preload:           cfg.Preload,
		Assets:            assets,
		API:               cfg.API,
		RenderDocument:    srv.renderDocument,
		IsNotFoundError:   cfg.IsNotFoundError,
		HandleNotFound:    srv.handleNotFound,
		HandleServerError: srv.handleServerError,
		Observe:           srv.observe,
	})
	if err != nil {
		return nil, fmt.Errorf("create route engine: %w", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(srv.instrument)
	router.Use(middleware.Recoverer)

	router.Get(normalizePath(cfg.HealthPath, defaultHealthPath), srv.handleHealth)
	if cfg.Metrics != nil {
		router.Handle(defaultMetricsPath, cfg.Metrics.Handler())
	}
	router.Handle("/", routeEngine)
	router.Handle("/*", routeEngine)

	return router, nil
}

type requestInfo struct {
	kind string
	span trace.Span
}

type requestInfoKey struct{}

func (s *server[C]) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ctx, span := s.tracer.Start(r.Context(), "http.request",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		info := &requestInfo{kind: internalKind, span: span}
		ctx = context.WithValue(ctx, requestInfoKey{}, info)

		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(started)

		span.SetAttributes(attribute.Int("http.status_code", status), attribute.String("route.kind", info.kind))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if s.metrics != nil {
			s.metrics.ObserveRequest(info.kind, elapsed)
		}
		s.log.Info("request",
			logger.String("request_id", middleware.GetReqID(ctx)),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("kind", info.kind),
			logger.Int("status", status),
			logger.Duration("duration", elapsed),
		)
	})
}

func (s *server[C]) observe(r *http.Request, classified route.Route) {
	info, ok := r.Context().Value(requestInfoKey{}).(*requestInfo)
	if !ok {
		return
	}
	info.kind = string(classified.Kind())
	info.span.SetName("route." + info.kind)
	if application, ok := classified.(route.Application); ok {
		info.span.SetAttributes(attribute.String("route.page", string(application.Page())))
	}
}

func (s *server[C]) renderDocument(r *http.Request, w http.ResponseWriter, rendered framework.Rendered) error {
	payload, err := hydrate.Encode(rendered.Data)
	if err != nil {
		return fmt.Errorf("encode page %q: %w", rendered.Page, err)
	}

	return s.renderWithStatus(r, w, s.document(r, rendered, payload), 0, s.cachePolicies.HTML)
}

func (s *server[C]) renderWithStatus(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
	statusCode int,
	cachePolicy string,
) error {
	setCachePolicy(w, cachePolicy)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode > 0 {
		w.WriteHeader(statusCode)
	}
	return component.Render(r.Context(), w)
}

func (s *server[C]) handleNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	var component templ.Component
	if s.notFoundPage != nil {
		component = s.notFoundPage(r, notFoundContext)
	}
	if component == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}
	if err := s.renderWithStatus(r, w, component, http.StatusNotFound, s.cachePolicies.Error); err != nil {
		s.logError(r, fmt.Errorf("render not found page: %w", err))
	}
}

func (s *server[C]) handleServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.logError(r, err)

	var component templ.Component
	if s.errorPage != nil {
		component = s.errorPage(r, err)
	}
	if component == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if renderErr := s.renderWithStatus(r, w, component, http.StatusInternalServerError, s.cachePolicies.Error); renderErr != nil {
		s.logError(r, fmt.Errorf("render error page: %w", renderErr))
	}
}

func (s *server[C]) logError(r *http.Request, err error) {
	if info, ok := r.Context().Value(requestInfoKey{}).(*requestInfo); ok {
		info.span.RecordError(err)
	}
	s.log.Error("server error",
		logger.String("request_id", middleware.GetReqID(r.Context())),
		logger.String("path", r.URL.Path),
		logger.Error(err),
	)
}

func (s *server[C]) handleHealth(w http.ResponseWriter, _ *http.Request) {
	setCachePolicy(w, s.cachePolicies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.healthBody))
}

func normalizePath(path string, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func withDefaultPolicies(policies CachePolicies) CachePolicies {
	defaults := DefaultCachePolicies()
	if strings.TrimSpace(policies.HTML) == "" {
		policies.HTML = defaults.HTML
	}
	if strings.TrimSpace(policies.Static) == "" {
		policies.Static = defaults.Static
	}
	if strings.TrimSpace(policies.Health) == "" {
		policies.Health = defaults.Health
	}
	if strings.TrimSpace(policies.Error) == "" {
		policies.Error = defaults.Error
	}
	return policies
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	policy = strings.TrimSpace(policy)
	if policy == "" {
		return
	}
	w.Header().Set("Cache-Control", policy)
}

func withCachePolicy(policy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCachePolicy(w, policy)
		next.ServeHTTP(w, r)
	})
}
