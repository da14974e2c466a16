// Command tempuscached runs the cache server: parse flags, construct
// the cache engine, accept connections until signaled, shut down
// cleanly. This is the adapted descendant of
// Krishna8167-tempuscache/main.go — construct a cache, run it, stop it
// on shutdown — generalized from a fixed demo sleep to
// serve-until-signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	tempuscache "github.com/Krishna8167/tempuscache/v2"
	"github.com/Krishna8167/tempuscache/v2/internal/config"
	"github.com/Krishna8167/tempuscache/v2/server"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run contains everything that would otherwise be duplicated across
// main()/tests: flag parsing, wiring, serving, exit codes (spec.md §6:
// "Exit codes: 0 on clean shutdown; non-zero on fatal bind or
// initialization failure").
func run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tempuscached:", err)
		return 1
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tempuscached: failed to build logger:", err)
		return 1
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cache := tempuscache.New(
		tempuscache.WithCapacity(cfg.CacheCapacity),
		tempuscache.WithLogger(sugar),
	)
	defer cache.Close()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv, err := server.New(addr, cache, sugar, server.WithConnectionsGauge(cache.ConnectionsGauge()))
	if err != nil {
		sugar.Errorw("failed to bind listener", "addr", addr, "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow("tempuscached listening", "addr", addr, "cache_capacity", cfg.CacheCapacity)
	if err := srv.Serve(ctx); err != nil {
		sugar.Errorw("server stopped with error", "err", err)
		return 1
	}

	sugar.Info("tempuscached shut down cleanly")
	return 0
}
