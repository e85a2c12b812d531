package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/auth"
	"github.com/iliyamo/university-admin/internal/config"
	"github.com/iliyamo/university-admin/internal/database"
	"github.com/iliyamo/university-admin/internal/handler"
	"github.com/iliyamo/university-admin/internal/middleware"
	"github.com/iliyamo/university-admin/internal/queue"
	"github.com/iliyamo/university-admin/internal/repository"
	"github.com/iliyamo/university-admin/internal/router"
)

func main() {
	// A local .env is optional; in production the variables come from the
	// process environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	courses := repository.NewCourseRepo(db)
	lessons := repository.NewLessonRepo(db)
	events := repository.NewEventRepo(db)

	codec, err := auth.NewCodec(auth.Config{
		Secret:     cfg.JWTSecret,
		Algorithm:  cfg.JWTAlgorithm,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}
	issuer := auth.NewIssuer(codec, auth.Config{AccessTTL: cfg.AccessTTL, RefreshTTL: cfg.RefreshTTL})
	verifier := auth.NewVerifier(codec, issuer, users)

	authn := middleware.Authenticate(verifier)
	// The limiter is attached per group after Authenticate so its bucket key
	// sees the resolved user id instead of "anon".
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, issuer, verifier), authn, limit)
	router.RegisterCourses(e, handler.NewCourseHandler(courses, lessons), handler.NewLessonHandler(courses, lessons), authn, limit, cache)
	router.RegisterEvents(e, handler.NewEventHandler(events), authn, limit, cache)
	router.RegisterUsers(e, handler.NewUserHandler(cfg, users), authn, limit)

	// Audit trail consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
