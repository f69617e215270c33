package main // dashboard aggregation service entry point

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/aroy/employee-dashboard/internal/config"
	"github.com/aroy/employee-dashboard/internal/dashboard"
	"github.com/aroy/employee-dashboard/internal/handler"
	"github.com/aroy/employee-dashboard/internal/queue"
	"github.com/aroy/employee-dashboard/internal/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadDashboard()

	poller := dashboard.NewPoller(dashboard.NewClient(cfg.FeedURL), cfg.PollInterval)
	go poller.Run(context.Background())

	// With a broker configured, reload events trigger a refresh ahead of
	// the next poll tick. Polling continues regardless, so losing the
	// broker costs latency, not correctness.
	if cfg.AMQPURL != "" {
		go func() {
			err := queue.StartFeedConsumer(context.Background(), cfg.AMQPURL, func(ev queue.FeedReloadedEvent) {
				log.Printf("feed %s reloaded (generation %d, %d rows), refreshing", ev.Feed, ev.Generation, ev.Rows)
				poller.Poke()
			})
			if err != nil && err != context.Canceled {
				log.Printf("feed consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Origins,
		AllowMethods: []string{echo.GET},
	}))
	router.RegisterDashboard(e, handler.NewDashboardHandler(poller))

	addr := ":" + cfg.Port
	log.Printf("dashboard listening on %s (feed=%s, interval=%s)", addr, cfg.FeedURL, cfg.PollInterval)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
