package main // feed service entry point

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/aroy/employee-dashboard/internal/config"
	"github.com/aroy/employee-dashboard/internal/feed"
	"github.com/aroy/employee-dashboard/internal/handler"
	"github.com/aroy/employee-dashboard/internal/middleware"
	"github.com/aroy/employee-dashboard/internal/queue"
	"github.com/aroy/employee-dashboard/internal/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadFeed()

	files := make(map[string]string, len(config.FeedNames))
	for _, name := range config.FeedNames {
		files[name] = filepath.Join(cfg.Dir, name+".csv")
	}

	store := feed.NewStore(config.FeedNames)
	feed.LoadAll(store, files)

	// Reload events are best-effort; without a broker URL no callback is
	// registered and reloads are only visible in the watcher's log.
	var onReload feed.ReloadFunc
	if cfg.AMQPURL != "" {
		onReload = func(name string, gen uint64, rows int) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue.PublishFeedReloaded(ctx, cfg.AMQPURL, queue.FeedReloadedEvent{
				Feed:       name,
				Generation: gen,
				Rows:       rows,
				ReloadedAt: time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	watcher, err := feed.NewWatcher(store, files, cfg.Debounce, onReload)
	if err != nil {
		log.Fatalf("watcher: %v", err)
	}
	go func() {
		if err := watcher.Run(context.Background()); err != nil && err != context.Canceled {
			log.Printf("watcher stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Origins,
		AllowMethods: []string{echo.GET},
	}))

	// NOTE: this service has no authentication, matching the system it
	// replaces; it is meant to be reachable only from the dashboard's
	// network. Bind accordingly.
	var cache echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}
	router.RegisterFeed(e, handler.NewFeedHandler(store), cache)

	addr := ":" + cfg.Port
	log.Printf("feed server listening on %s (dir=%s)", addr, cfg.Dir)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
