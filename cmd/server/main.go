package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/6Yass9/souli-studio-server/internal/config"
	"github.com/6Yass9/souli-studio-server/internal/database"
	"github.com/6Yass9/souli-studio-server/internal/handler"
	"github.com/6Yass9/souli-studio-server/internal/notify"
	"github.com/6Yass9/souli-studio-server/internal/queue"
	"github.com/6Yass9/souli-studio-server/internal/repository"
	"github.com/6Yass9/souli-studio-server/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	if err := cfg.DBReady(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.AuthReady(); err != nil {
		// The server still starts so /healthz answers; the login endpoint
		// reports 500 until the secrets are provided.
		log.Printf("config: %v — login disabled until JWT_SECRET and LOGIN_CODE_SALT are set", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	appointments := repository.NewAppointmentRepo(db)

	sender := &notify.Sender{
		Token:         cfg.WhatsAppToken,
		PhoneNumberID: cfg.WhatsAppPhoneNumberID,
	}

	// The notification worker is optional: without a broker the direct
	// /api/notify endpoint still works.
	if cfg.AMQPURL != "" && sender.Configured() {
		worker := &queue.NotificationWorker{
			URL:        cfg.AMQPURL,
			Sender:     sender,
			AdminPhone: cfg.WhatsAppAdminPhone,
		}
		go worker.Start()
	}

	rlCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient()
	if rlCfg.Enabled && rdb == nil {
		log.Printf("redis unavailable, login rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, rlCfg, rdb,
		handler.NewAuthHandler(cfg, users),
		handler.NewAppointmentHandler(cfg, appointments, sender))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
