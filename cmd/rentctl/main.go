// Command rentctl is a terminal client for the rental marketplace.  It
// behaves like one browser tab: the store and the signed-in session live
// in a local state file (or a shared backend selected by STORE_BACKEND)
// and every call waits out the simulated network latency.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/session"
	"github.com/iliyamo/rental-marketplace/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: .env not loaded: %v", err)
	}
	log.SetFlags(0)
	log.SetPrefix("rentctl: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadStore("file", 1)
	a, closeFn, err := open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeFn()

	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		closeFn()
		os.Exit(1)
	}
}

// open wires the store and the session slot.  The session always lives in
// the local state file; the collections live wherever cfg points.
func open(ctx context.Context, cfg config.StoreConfig) (*app, func(), error) {
	local := storage.NewFile(cfg.FilePath)

	var kv storage.Storage = local
	closeFn := func() {}
	if !strings.EqualFold(cfg.Backend, "file") {
		rdbCfg := config.LoadRedis()
		rdb := config.NewRedisClient(rdbCfg)
		shared, err := storage.Open(ctx, cfg, rdb)
		if err != nil {
			if rdb != nil {
				_ = rdb.Close()
			}
			return nil, nil, err
		}
		kv = shared
		closeFn = func() {
			_ = storage.Close(shared)
			if rdb != nil {
				_ = rdb.Close()
			}
		}
	}

	store := repository.NewStore(kv, repository.WithLatencyScale(cfg.LatencyScale))
	if err := store.Initialize(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	sess := session.NewManager(store, local)
	if err := sess.Restore(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return &app{store: store, sess: sess, out: os.Stdout}, closeFn, nil
}
