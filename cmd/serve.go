package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/model"
	"github.com/sells-group/neighbourhood-cli/internal/monitoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve neighbourhood scores over HTTP",
	Long: `Start an HTTP server exposing:

  GET /health
  GET /v1/score?address=<street, no, postal, city>
  GET /v1/compare?a=<address>&b=<address>
  GET /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		metrics := monitoring.NewMetrics(nil)
		chk, ref, err := initChecker(cfg, metrics)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           newRouter(chk, promhttp.Handler()),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("reference", ref.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP routes. metricsHandler may be nil.
func newRouter(svc scoreService, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/score", handleScore(svc))
		r.Get("/compare", handleCompare(svc))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	return r
}

func handleScore(svc scoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := model.ParseAddress(r.URL.Query().Get("address"))
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}

		report, err := svc.Check(r.Context(), addr)
		if err != nil {
			zap.L().Warn("score request failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("address", addr.String()),
				zap.Error(err),
			)
			respondError(w, http.StatusBadGateway, err)
			return
		}
		respondJSON(w, http.StatusOK, report)
	}
}

func handleCompare(svc scoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		a, err := model.ParseAddress(q.Get("a"))
		if err != nil {
			respondError(w, http.StatusBadRequest, eris.Wrap(err, "parameter a"))
			return
		}
		b, err := model.ParseAddress(q.Get("b"))
		if err != nil {
			respondError(w, http.StatusBadRequest, eris.Wrap(err, "parameter b"))
			return
		}

		cmp, err := svc.Compare(r.Context(), a, b)
		if err != nil {
			zap.L().Warn("compare request failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			respondError(w, http.StatusBadGateway, err)
			return
		}
		respondJSON(w, http.StatusOK, cmp)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
