package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/sevahub/home-services/internal/booking"
	"github.com/sevahub/home-services/internal/config"
	"github.com/sevahub/home-services/internal/database"
	"github.com/sevahub/home-services/internal/handler"
	"github.com/sevahub/home-services/internal/queue"
	"github.com/sevahub/home-services/internal/ratelimit"
	"github.com/sevahub/home-services/internal/repository"
	"github.com/sevahub/home-services/internal/router"
	"github.com/sevahub/home-services/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	bookingCfg := config.LoadBookingConfig()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: rate limiting and response caching degrade to
	// no-ops when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	limiter := ratelimit.NewLimiter(rdb, rlCfg.Prefix)

	bookings := repository.NewBookingRepo(db)
	services := repository.NewServiceRepo(db)
	workers := repository.NewWorkerRepo(db)
	promos := repository.NewPromoRepo(db)
	referrals := repository.NewReferralRepo(db)
	memberships := repository.NewMembershipRepo(db)
	fraud := repository.NewFraudRepo(db)
	users := repository.NewUserRepo(db)
	convos := repository.NewConversationRepo(db)
	wallets := repository.NewWalletRepo(db)
	finalizer := repository.NewFinalizer(db, bookings, promos, memberships, wallets)

	publisher := service.NewPublisher("")
	queue.StartConsumers(service.BrokerURL())

	orc := booking.NewOrchestrator(bookingCfg, rlCfg, booking.Deps{
		Bookings:    bookings,
		Catalog:     services,
		Workers:     workers,
		Promos:      promos,
		Referrals:   referrals,
		Memberships: memberships,
		Fraud:       fraud,
		Users:       users,
		Convos:      convos,
		Committer:   finalizer,
		Matcher:     booking.NewSQLMatcher(workers),
		Wallet:      wallets,
		Events:      publisher,
		Limiter:     limiter,
	})

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterBookings(e, handler.NewBookingHandler(orc, bookings), cfg.JWTSecret,
		rlCfg, cacheCfg, limiter, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
