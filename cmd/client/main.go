// Package main is the FoodKeeper terminal client.
package main

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/atinyakov/FoodKeeper/internal/client/api"
	"github.com/atinyakov/FoodKeeper/internal/client/session"
	"github.com/atinyakov/FoodKeeper/internal/client/storage"
	"github.com/atinyakov/FoodKeeper/internal/client/view"
	"github.com/atinyakov/FoodKeeper/internal/config"
	"github.com/atinyakov/FoodKeeper/internal/logger"
)

var (
	version   string
	buildDate string
)

func main() {
	opts, err := config.ParseClient(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.ShowVersion {
		fmt.Printf("FoodKeeper Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(opts.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	sess := session.New(opts.SessionFile)
	if err := sess.Init(); err != nil {
		log.Log.Warn("ignoring unreadable session file", zap.Error(err))
	}

	cache := storage.NewLocalStorage(opts.CacheFile)
	if err := cache.Load(); err != nil {
		log.Log.Warn("ignoring unreadable cache file", zap.Error(err))
	}
	defer cache.Close()

	client := api.New(&http.Client{Timeout: opts.Timeout.Duration}, opts.ServerURL, sess)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := storage.Refresh(ctx, client, cache); err != nil {
		log.Log.Warn("initial refresh failed, using cached items", zap.Error(err))
	}
	storage.StartAutoRefresh(ctx, client, cache, opts.RefreshInterval.Duration, log.Log)

	sh := &shell{
		api:      client,
		sess:     sess,
		cache:    cache,
		prompt:   storage.NewTerminalPrompter(),
		view:     view.New(os.Stdout, opts.SoonThresholdDays),
		out:      os.Stdout,
		pageSize: opts.PageSize,
	}
	sh.run(ctx)
}
