package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthhub/healthhub-web/internal/apiclient"
	"github.com/healthhub/healthhub-web/internal/config"
	"github.com/healthhub/healthhub-web/internal/session"
	"github.com/healthhub/healthhub-web/internal/web"

	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("web-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s api_base_url=%s", cfg.Env, cfg.HTTPPort, cfg.APIBaseURL)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sessions live in Redis when an address is configured, otherwise in
	// process memory (fine for dev, lost on restart).
	var rdb *redis.Client
	var sessions session.Store
	if cfg.RedisAddr != "" {
		rdb, err = session.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
		}()
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		log.Println("connected to Redis, sessions stored in Redis")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		log.Println("no REDIS_ADDR configured, sessions stored in memory")
	}

	api := apiclient.New(cfg.APIBaseURL)

	srv, err := web.NewServer(api, sessions, cfg.Env)
	if err != nil {
		log.Fatalf("server init error: %v", err)
	}

	router := web.NewRouter(web.RouterConfig{
		Server:        srv,
		Redis:         rdb,
		APIBaseURL:    cfg.APIBaseURL,
		Env:           cfg.Env,
		Version:       version,
		AuthRateRPS:   cfg.AuthRateRPS,
		AuthRateBurst: cfg.AuthRateBurst,
	})

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down web-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
