package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/config"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/handler"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/ai"
	interviewService "github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/interview"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	kv, cleanup, err := newKV(cfg.Store)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer cleanup()

	var generator ai.Generator
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
			log.Println("continuing with canned questions and fallback grades")
		} else {
			generator = ai.NewService(chatModel)
			log.Println("chat model initialized")
		}
	} else {
		log.Println("model credentials not configured, using canned questions and fallback grades")
	}

	sessions := store.NewSessions(kv)
	svc := interviewService.NewService(sessions, ai.NewResolver(generator))
	router := handler.NewRouter(svc, cfg.Server.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

func newKV(cfg config.StoreConfig) (store.KV, func(), error) {
	if cfg.Path == "" {
		log.Println("DB_PATH not set, sessions kept in memory")
		return store.NewMemoryKV(), func() {}, nil
	}

	kv, err := store.NewSQLiteKV(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("session store opened at %s", cfg.Path)
	return kv, func() {
		if err := kv.Close(); err != nil {
			log.Printf("warning: closing session store: %v", err)
		}
	}, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("interview coach listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
