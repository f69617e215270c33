package main // auth service entry point

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/aroy/employee-dashboard/internal/config"
	"github.com/aroy/employee-dashboard/internal/database"
	"github.com/aroy/employee-dashboard/internal/handler"
	"github.com/aroy/employee-dashboard/internal/middleware"
	"github.com/aroy/employee-dashboard/internal/repository"
	"github.com/aroy/employee-dashboard/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins
	cfg := config.LoadAuth()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Rate limiting degrades to a pass-through when Redis is down.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, login rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Origins,
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.CSRFHeader},
	}))

	a := handler.NewAuthHandler(cfg, repository.NewUserRepo(db))
	router.RegisterAuth(e, a, cfg.JWTSecret, cfg.CSRFSecret, limiter)

	addr := ":" + cfg.Port
	log.Printf("auth server listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
