package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/cache"
	"github.com/iliyamo/review-catalog/internal/config"
	"github.com/iliyamo/review-catalog/internal/database"
	"github.com/iliyamo/review-catalog/internal/handler"
	"github.com/iliyamo/review-catalog/internal/middleware"
	"github.com/iliyamo/review-catalog/internal/queue"
	"github.com/iliyamo/review-catalog/internal/repository"
	"github.com/iliyamo/review-catalog/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rating cache and rate limiting disabled")
	}
	ratings := cache.NewRatingCache(rdb)

	users := repository.NewUserRepo(db)
	codes := repository.NewCodeRepo(db)
	categories := repository.NewCategoryRepo(db)
	genres := repository.NewGenreRepo(db)
	titles := repository.NewTitleRepo(db, ratings)
	reviews := repository.NewReviewRepo(db)
	comments := repository.NewCommentRepo(db)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, codes),
		Users:      handler.NewUserHandler(users),
		Categories: handler.NewCategoryHandler(categories),
		Genres:     handler.NewGenreHandler(genres),
		Titles:     handler.NewTitleHandler(titles, categories, genres),
		Reviews:    handler.NewReviewHandler(titles, reviews, ratings),
		Comments:   handler.NewCommentHandler(titles, reviews, comments),
	}

	e := echo.New()
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	router.RegisterRoutes(e, h, cfg.JWTSecret)

	// Confirmation emails leave through the broker; the consumer is the
	// delivery side and reconnects on its own.
	go func() {
		if err := queue.StartMailConsumer(); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
