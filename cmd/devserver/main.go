// Command devserver runs the webhook pipeline as a local HTTP server so the
// intake flow can be exercised without API Gateway, against LocalStack or
// real AWS.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/wolfman30/synapse-leads/internal/app/bootstrap"
	"github.com/wolfman30/synapse-leads/internal/pipeline"
	"github.com/wolfman30/synapse-leads/internal/trigger"
)

func main() {
	// Load .env when present; a missing file is fine in CI and containers.
	_ = godotenv.Load()

	rt, err := bootstrap.NewRuntime(context.Background())
	if err != nil {
		os.Stderr.WriteString("devserver: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := rt.Logger
	logger.Info("starting synapse-leads devserver", "env", rt.Config.Env, "port", rt.Config.Port)

	webhooks := rt.Pipeline(true)
	workflow := rt.Monolith()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/webhook/*", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		writeResult(w, webhooks.HandleWebhook(req.Context(), trigger.Event{
			Path: req.URL.Path,
			Body: string(body),
		}))
	})

	r.Post("/monolith", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		writeResult(w, workflow.Process(req.Context(), body))
	})

	srv := &http.Server{
		Addr:         ":" + rt.Config.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

func writeResult(w http.ResponseWriter, result pipeline.Result) {
	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(result.StatusCode)
	w.Write([]byte(result.Body))
}
