package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/linealab/linea/internal/auth"
	"github.com/linealab/linea/internal/config"
	"github.com/linealab/linea/internal/db"
	"github.com/linealab/linea/internal/export"
	mw "github.com/linealab/linea/internal/middleware"
	"github.com/linealab/linea/internal/session"
	"github.com/linealab/linea/internal/sketches"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(pool, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	sketchService := sketches.NewService(pool)
	sketchHandler := sketches.NewHandler(sketchService)

	// Document loader/saver for editing sessions
	docLoader := func(sketchID string) ([]byte, error) {
		return sketchService.GetLatestSnapshot(context.Background(), sketchID)
	}
	docSaver := func(sketchID string, doc []byte) error {
		return sketchService.SaveSnapshot(context.Background(), sketchID, doc)
	}
	hub := session.NewHub(docLoader, docSaver)

	exportHandler := export.NewHandler()

	r := mux.NewRouter()

	// Global middleware
	origins := strings.Split(cfg.AllowedOrigins, ",")
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Export endpoint (public — renders a posted document, touches no state)
	r.HandleFunc("/export/svg", exportHandler.ExportSVG).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.RequireUser)

	api.HandleFunc("/sketches", sketchHandler.List).Methods("GET")
	api.HandleFunc("/sketches", sketchHandler.Create).Methods("POST")
	api.HandleFunc("/sketches/{sketchId}", sketchHandler.Get).Methods("GET")
	api.HandleFunc("/sketches/{sketchId}", sketchHandler.Delete).Methods("DELETE")
	api.HandleFunc("/sketches/{sketchId}/snapshots/latest", sketchHandler.GetLatestSnapshot).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/sketch/{sketchId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, sketchService, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, sketchSvc *sketches.Service, origins []string) {
	vars := mux.Vars(r)
	sketchID := vars["sketchId"]

	token := auth.TokenFromRequest(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if _, err := sketchSvc.Get(r.Context(), sketchID, userID); err != nil {
		http.Error(w, "sketch not found", http.StatusForbidden)
		return
	}

	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		patterns = append(patterns, strings.TrimPrefix(strings.TrimPrefix(o, "http://"), "https://"))
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: patterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := session.NewClient(conn)
	if _, err := hub.Attach(sketchID, client); err != nil {
		slog.Warn("attach refused", "sketch", sketchID, "error", err)
		conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
