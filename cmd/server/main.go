package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/arcboard/arcboard/backend-go/internal/asset"
	"github.com/arcboard/arcboard/backend-go/internal/auth"
	"github.com/arcboard/arcboard/backend-go/internal/board"
	"github.com/arcboard/arcboard/backend-go/internal/collab"
	"github.com/arcboard/arcboard/backend-go/internal/config"
	"github.com/arcboard/arcboard/backend-go/internal/document"
	mw "github.com/arcboard/arcboard/backend-go/internal/middleware"
	"github.com/arcboard/arcboard/backend-go/internal/store"
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

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		slog.Error("ensure schema", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	boardService := board.NewService(st)
	boardHandler := board.NewHandler(boardService)

	hub := collab.NewHub(func(boardID string) (document.Board, error) {
		// Runs in the hub goroutine, outside any request.
		return boardService.LoadBoard(context.Background(), boardID)
	})
	go hub.Run()

	saveRoom := func(b document.Board) error {
		return boardService.SaveBoard(context.Background(), b)
	}

	// Periodic snapshot flush for live rooms.
	flushTicker := time.NewTicker(time.Duration(cfg.SnapshotInterval) * time.Second)
	defer flushTicker.Stop()
	go func() {
		for {
			select {
			case <-flushTicker.C:
				hub.FlushAll(saveRoom)
			case <-ctx.Done():
				return
			}
		}
	}()

	assetHandler := asset.NewHandler(cfg.AssetDir)

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset endpoints (public upload for now; served files are immutable)
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.RequireAuth)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/boards", boardHandler.List).Methods("GET")
	api.HandleFunc("/boards", boardHandler.Create).Methods("POST")
	api.HandleFunc("/boards/{boardId}", boardHandler.Get).Methods("GET")
	api.HandleFunc("/boards/{boardId}", boardHandler.Rename).Methods("PUT")
	api.HandleFunc("/boards/{boardId}", boardHandler.Delete).Methods("DELETE")
	api.HandleFunc("/boards/{boardId}/invite", boardHandler.Invite).Methods("POST")
	api.HandleFunc("/boards/{boardId}/members", boardHandler.ListMembers).Methods("GET")
	api.HandleFunc("/boards/{boardId}/members/{userId}", boardHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/boards/{boardId}/snapshots/latest", boardHandler.GetLatestSnapshot).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/board/{boardId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, boardService, cfg.Origins())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Save open rooms before dropping connections.
		hub.FlushAll(saveRoom)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, boardSvc *board.Service, allowedOrigins []string) {
	boardID := mux.Vars(r)["boardId"]

	var userID string
	var displayName string

	// The playground board allows anonymous access.
	const playgroundBoardID = "board_playground"
	if boardID == playgroundBoardID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Browsers cannot set headers on websocket requests, so the token
		// rides a query param.
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if err := boardSvc.CheckMembership(r.Context(), boardID, userID); err != nil {
			http.Error(w, "not a board member", http.StatusForbidden)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	// AcceptOptions patterns are host-only, no scheme.
	patterns := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		patterns = append(patterns, o)
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: patterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, boardID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
