package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/clubpulse/pacing-cli/internal/compare"
	"github.com/clubpulse/pacing-cli/internal/projection"
	"github.com/clubpulse/pacing-cli/internal/segment"
	"github.com/clubpulse/pacing-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve comparison and segmentation results over a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		r := newAPIRouter(st, rate.Limit(cfg.Server.RateLimit))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newAPIRouter wires the read-only JSON API.
func newAPIRouter(st store.Store, limit rate.Limit) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))
	r.Use(rateLimiter(limit))

	api := &apiServer{store: st}
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/brands", api.handleBrands)
		r.Get("/compare/{brand}/{edition}", api.handleCompare)
		r.Get("/project/{brand}/{edition}", api.handleProject)
		r.Get("/crossbrand", api.handleCrossBrand)
		r.Get("/segments/{brand}/{edition}", api.handleSegments)
	})
	return r
}

// rateLimiter applies a server-wide token bucket.
func rateLimiter(limit rate.Limit) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, int(limit)+1)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type apiServer struct {
	store store.Store
}

func (a *apiServer) handleBrands(w http.ResponseWriter, r *http.Request) {
	editions, err := a.store.ListEditions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, editions)
}

func (a *apiServer) handleCompare(w http.ResponseWriter, r *http.Request) {
	brand, edition := chi.URLParam(r, "brand"), chi.URLParam(r, "edition")
	records, err := a.store.ListRecords(r.Context(), store.RecordFilter{Brand: brand})
	if err != nil {
		respondError(w, err)
		return
	}
	res := compare.Compare(records, brand, edition, nowUTC())
	if res == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "insufficient data"})
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (a *apiServer) handleProject(w http.ResponseWriter, r *http.Request) {
	brand, edition := chi.URLParam(r, "brand"), chi.URLParam(r, "edition")
	records, err := a.store.ListRecords(r.Context(), store.RecordFilter{Brand: brand})
	if err != nil {
		respondError(w, err)
		return
	}
	proj := projection.Project(records, brand, edition, nowUTC())
	if proj == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "insufficient data"})
		return
	}
	respondJSON(w, http.StatusOK, proj)
}

func (a *apiServer) handleCrossBrand(w http.ResponseWriter, r *http.Request) {
	left, right := r.URL.Query().Get("left"), r.URL.Query().Get("right")
	if left == "" || right == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "left and right query params are required"})
		return
	}
	records, err := a.store.ListRecords(r.Context(), store.RecordFilter{})
	if err != nil {
		respondError(w, err)
		return
	}
	res := compare.CrossBrand(records, left, right)
	if res == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "no records for either brand"})
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (a *apiServer) handleSegments(w http.ResponseWriter, r *http.Request) {
	brand, edition := chi.URLParam(r, "brand"), chi.URLParam(r, "edition")
	records, err := a.store.ListRecords(r.Context(), store.RecordFilter{Brand: brand})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, segment.EditionUserLists(records, brand, edition))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func respondError(w http.ResponseWriter, err error) {
	zap.L().Error("api: request failed", zap.Error(err))
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
