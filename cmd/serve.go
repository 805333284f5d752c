package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort   int
	serveAssets string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated map assets for local preview",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		assetsDir := serveAssets
		if assetsDir == "" {
			assetsDir = cfg.OutputDir
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(assetsDir),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("assets", assetsDir))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(assetsDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
	})

	r.Get("/api/categories", func(w http.ResponseWriter, req *http.Request) {
		cats, err := listCategories(assetsDir)
		if err != nil {
			zap.L().Error("list categories failed", zap.Error(err))
			http.Error(w, `{"error":"failed to read assets"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cats) //nolint:errcheck
	})

	r.Handle("/*", http.FileServer(http.Dir(assetsDir)))

	return r
}

// categoryInfo summarizes one generated category file.
type categoryInfo struct {
	Category string `json:"category"`
	File     string `json:"file"`
	Features int    `json:"features"`
}

// listCategories scans the assets directory for per-category GeoJSON files
// and counts their features. The boundary file is not a category.
func listCategories(assetsDir string) ([]categoryInfo, error) {
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		return nil, eris.Wrapf(err, "read assets dir %s", assetsDir)
	}

	cats := []categoryInfo{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".geojson") || name == "grantees.geojson" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(assetsDir, name))
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", name)
		}
		var fc struct {
			Features []json.RawMessage `json:"features"`
		}
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, eris.Wrapf(err, "parse %s", name)
		}

		cats = append(cats, categoryInfo{
			Category: strings.TrimSuffix(name, ".geojson"),
			File:     name,
			Features: len(fc.Features),
		})
	}
	return cats, nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveAssets, "assets", "", "assets directory to serve (default from config)")
	rootCmd.AddCommand(serveCmd)
}
