package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"venturebridge/config"
	"venturebridge/internal/adapters/auth"
	"venturebridge/internal/adapters/email"
	deliveryhttp "venturebridge/internal/delivery/http"
	"venturebridge/internal/delivery/http/controllers"
	"venturebridge/internal/delivery/http/middleware"
	"venturebridge/internal/realtime"
	"venturebridge/internal/repository/postgres"
	"venturebridge/internal/services"
)

const serviceTimeout = 5 * time.Second

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	meetingRepo := postgres.NewMeetingRepository(db)
	collabRepo := postgres.NewCollaborationRepository(db)
	dealRepo := postgres.NewDealRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccess,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	userService := services.NewUserService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry, serviceTimeout)
	messageService := services.NewMessageService(messageRepo, serviceTimeout)

	hub := realtime.NewHub(messageService, tokenVerifier, logger)

	collabService := services.NewCollaborationService(collabRepo, userRepo, emailService, logger, serviceTimeout)
	meetingService := services.NewMeetingService(meetingRepo, collabService, userRepo, emailService, hub, logger, cfg.ClientURL, serviceTimeout)
	dealService := services.NewDealService(dealRepo, serviceTimeout)
	dashboardService := services.NewDashboardService(collabRepo, dealRepo, meetingRepo, serviceTimeout)

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Users:          controllers.NewUserController(logger, userService),
		Meetings:       controllers.NewMeetingController(logger, meetingService),
		Collaborations: controllers.NewCollaborationController(logger, collabService),
		Deals:          controllers.NewDealController(logger, dealService, userService),
		Messages:       controllers.NewMessageController(logger, messageService, hub),
		Dashboards:     controllers.NewDashboardController(logger, dashboardService, userService),
	}, hub, tokenVerifier, logger)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
