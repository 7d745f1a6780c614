package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jtripath/maven-dependency-management-extension/internal/metrics"
	"github.com/jtripath/maven-dependency-management-extension/pkg/buildinfo"
	deperrors "github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/model"
	"github.com/jtripath/maven-dependency-management-extension/pkg/overrides"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// resolver is the part of effective.Service the HTTP API needs.
type resolver interface {
	DependencyOverrides(ctx context.Context, gav string) (*overrides.Map, error)
	PluginOverrides(ctx context.Context, gav string) (*overrides.Map, error)
	EffectiveModel(ctx context.Context, gav string) (*model.Result, error)
}

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve override tables over HTTP",
		Long: `Serve starts an HTTP API backed by one resolution service:

  GET /v1/overrides/dependencies/{gav}
  GET /v1/overrides/plugins/{gav}
  GET /v1/effective/{gav}[?format=xml]
  GET /metrics
  GET /healthz
  GET /version`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *session) error {
				if !cmd.Flags().Changed("addr") && s.cfg.Serve.Addr != "" {
					addr = s.cfg.Serve.Addr
				}
				m := metrics.New(metrics.Config{})
				m.Install(metrics.NewTracing(m))
				return listenAndServe(ctx, addr, newRouter(s.service, m.Handler(), c.Logger), c.Logger)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down.
func listenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newRouter builds the API routes. metricsHandler may be nil.
func newRouter(svc resolver, metricsHandler http.Handler, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	h := &api{svc: svc}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/overrides/dependencies/{gav}", h.overrides(svc.DependencyOverrides))
		r.Get("/overrides/plugins/{gav}", h.overrides(svc.PluginOverrides))
		r.Get("/effective/{gav}", h.effective)
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}
	return r
}

// requestLogger logs each request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Millisecond),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

type api struct {
	svc resolver
}

func (a *api) overrides(fn func(context.Context, string) (*overrides.Map, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := fn(r.Context(), chi.URLParam(r, "gav"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// effectiveResponse summarizes a build result.
type effectiveResponse struct {
	ID                   string         `json:"id"`
	Lineage              []string       `json:"lineage"`
	ActiveProfiles       []string       `json:"activeProfiles"`
	Imports              []model.Import `json:"imports"`
	DependencyManagement *overrides.Map `json:"dependencyManagement"`
	PluginManagement     *overrides.Map `json:"pluginManagement"`
	Warnings             []string       `json:"warnings"`
}

func (a *api) effective(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.EffectiveModel(r.Context(), chi.URLParam(r, "gav"))
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xml" {
		var buf bytes.Buffer
		if err := pom.Write(&buf, res.Effective); err != nil {
			writeError(w, deperrors.Wrap(deperrors.ErrCodeInternal, err, "encode effective model"))
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
		return
	}

	out := effectiveResponse{
		ID:                   res.Effective.ID(),
		Lineage:              make([]string, len(res.Lineage)),
		ActiveProfiles:       append([]string{}, res.ActiveProfiles...),
		Imports:              append([]model.Import{}, res.Imports...),
		DependencyManagement: overrides.Dependencies(res.Effective),
		PluginManagement:     overrides.Plugins(res.Effective),
		Warnings:             make([]string, len(res.Problems)),
	}
	for i, m := range res.Lineage {
		out.Lineage[i] = m.ID()
	}
	for i, p := range res.Problems {
		out.Warnings[i] = p.String()
	}
	writeJSON(w, http.StatusOK, out)
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code deperrors.Code) int {
	switch code {
	case deperrors.ErrCodeMalformedCoordinate, deperrors.ErrCodeInvalidRepository:
		return http.StatusBadRequest
	case deperrors.ErrCodeUnresolvableModel, deperrors.ErrCodeUnresolvableArtifact, deperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case deperrors.ErrCodeModelBuild:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := deperrors.GetCode(err)
	if code == "" {
		code = deperrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: string(code), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
