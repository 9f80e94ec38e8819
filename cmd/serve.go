package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dedupe-cli/internal/accountio"
	"github.com/sells-group/dedupe-cli/internal/model"
	"github.com/sells-group/dedupe-cli/internal/resolve"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload server: POST a CSV, download the annotated result",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		r.Post("/resolve", handleResolve)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// handleResolve accepts a multipart "file" upload plus an optional "fuzzy"
// form field and responds with the annotated CSV. The engine runs fully
// in-memory; nothing is retained after the response is written.
func handleResolve(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	file, _, err := r.FormFile("file")
	if err != nil {
		httpError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	mapping, err := loadMapping(r.FormValue("mapping"))
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := accountio.ReadCSV(file, mapping, accountio.ReadOptions{
		Latin1: r.FormValue("latin1") == "true" || cfg.IO.Latin1,
	})
	if err != nil {
		log.Warn("upload rejected", zap.Error(err))
		httpError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	fuzzy := r.FormValue("fuzzy") == "true"
	engine := resolve.NewEngine(resolve.Options{
		Fuzzy:          fuzzy,
		FuzzyThreshold: cfg.Resolve.FuzzyThreshold,
		Concurrency:    cfg.Resolve.Concurrency,
	})
	results, err := engine.Run(r.Context(), table.Accounts)
	if err != nil {
		log.Error("resolution failed", zap.Error(err))
		httpError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s := model.Summarize(results)
	log.Info("upload resolved",
		zap.Int("records", s.Records),
		zap.Bool("fuzzy", fuzzy),
		zap.Int("parents", s.Parents),
		zap.Int("merges", s.Merges),
		zap.Int("deletes", s.Deletes),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="processed_accounts.csv"`)
	w.Header().Set("X-Run-Id", runID)
	if err := accountio.WriteCSV(w, table, results); err != nil {
		log.Error("write response failed", zap.Error(err))
	}
}

func httpError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
