package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/me/loginhub/internal/config"
	"github.com/me/loginhub/internal/logging"
	"github.com/me/loginhub/internal/metrics"
	"github.com/me/loginhub/internal/server"
	"github.com/me/loginhub/internal/store"
)

func main() {
	var (
		flagCfg    = config.DefaultServerConfig()
		configFile = flag.String("config", "", "Path to a YAML config file")
		debug      = flag.Bool("debug", false, "Shorthand for --log-level=debug")
	)
	flag.StringVar(&flagCfg.Addr, "addr", flagCfg.Addr, "Listen address")
	flag.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&flagCfg.LogFormat, "log-format", flagCfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&flagCfg.DBPath, "db", flagCfg.DBPath, "Client storage database (default ~/.loginhub/console.db)")
	flag.StringVar(&flagCfg.APIURL, "api", flagCfg.APIURL, "LoginHub backend URL")
	flag.StringVar(&flagCfg.RedisURL, "redis", flagCfg.RedisURL, "Redis URL for tab storage (optional)")
	flag.BoolVar(&flagCfg.SecureCookies, "secure-cookies", flagCfg.SecureCookies, "Mark session cookies Secure (serve over HTTPS)")
	flag.Parse()

	// The config file and environment come first; explicit flags win.
	cfg, err := config.LoadServer(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = flagCfg.Addr
		case "log-level":
			cfg.LogLevel = flagCfg.LogLevel
		case "log-format":
			cfg.LogFormat = flagCfg.LogFormat
		case "db":
			cfg.DBPath = flagCfg.DBPath
		case "api":
			cfg.APIURL = flagCfg.APIURL
		case "redis":
			cfg.RedisURL = flagCfg.RedisURL
		case "secure-cookies":
			cfg.SecureCookies = flagCfg.SecureCookies
		}
	})
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Resolve database path.
	dbPath := cfg.DBPath
	if dbPath == "" {
		dir := config.DefaultStateDir()
		if err := os.MkdirAll(dir, 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", dir, err)
			os.Exit(1)
		}
		dbPath = filepath.Join(dir, "console.db")
	}

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", dbPath)

	reg, m := metrics.NewRegistry()
	serverOpts := []server.Option{server.WithRegistry(reg, m)}

	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse redis url: %v\n", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect to redis: %v\n", err)
			os.Exit(1)
		}
		serverOpts = append(serverOpts, server.WithRedis(rdb))
		logger.Info("tab storage in redis", "addr", redisOpts.Addr)
	}

	if cfg.MasterKey == "" {
		logger.Warn("master key not configured; master login disabled")
	}
	if !cfg.SecureCookies {
		logger.Warn("session cookies are not marked Secure; serve behind HTTPS in production")
	}

	srv := server.New(cfg, st, logger, serverOpts...)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.StartJanitor(ctx)

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "api", cfg.APIURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	srv.StopJanitor()
	logger.Info("server stopped")
}
