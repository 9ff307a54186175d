package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlibekovAA/userfmt/internal/common/bootstrap"
	commonhttp "github.com/AlibekovAA/userfmt/internal/common/http"
	"github.com/AlibekovAA/userfmt/internal/common/jwtverify"
	srv "github.com/AlibekovAA/userfmt/internal/common/server"
	userhttp "github.com/AlibekovAA/userfmt/internal/user/http"
)

const rateLimitCleanupInterval = time.Minute

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewUserFmtApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start userfmt: %v\n", err)
		os.Exit(1)
	}
	log := app.Log
	cfg := app.Config

	var api http.Handler = userhttp.NewHandler(app.Formatter, log, cfg.RequestTimeout)

	rateLimiter := commonhttp.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, jwtverify.ClientKey)
	rateLimiter.StartCleanup(ctx, rateLimitCleanupInterval)
	api = rateLimiter.Middleware(api)

	if cfg.AuthEnabled() {
		api = jwtverify.Middleware(cfg.JWTSecret, log)(api)
	} else {
		log.Warn("JWT_SECRET not set, /api/ is served without authentication")
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, commonhttp.BuildBaseHandler(log, mux))

	shutdownHooks := append([]srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("userfmt service: stopping background workers")
			cancel()
			return nil
		},
	}, app.ShutdownHooks()...)

	srv.StartWithGracefulShutdownAndHooks(server, serverConfig, log, "userfmt", shutdownHooks)
}
