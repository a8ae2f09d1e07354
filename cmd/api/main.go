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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/zhouzirui/dali-api/internal/config"
	"github.com/zhouzirui/dali-api/internal/handler"
	memberModel "github.com/zhouzirui/dali-api/internal/model/member"
	postModel "github.com/zhouzirui/dali-api/internal/model/post"
	"github.com/zhouzirui/dali-api/internal/service/member"
	"github.com/zhouzirui/dali-api/internal/service/post"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	seedMembers, err := memberModel.LoadSeed(cfg.Seed.MembersPath)
	if err != nil {
		log.Fatalf("failed to load member seed: %v", err)
	}
	seedPosts, err := postModel.LoadSeed(cfg.Seed.PostsPath)
	if err != nil {
		log.Fatalf("failed to load post seed: %v", err)
	}

	// Stores live for the whole process; nothing is written back to disk.
	memberService := member.NewService(seedMembers)
	postService := post.NewService(seedPosts, memberService)

	opts := handler.Options{AllowedOrigin: cfg.Server.AllowedOrigin}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts.Registry = reg
		log.Println("metrics exposed on /metrics")
	}

	router := handler.NewRouter(memberService, postService, opts)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("DALI API listening on %s", addr)
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
