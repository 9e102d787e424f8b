// @title        Member Directory API
// @version      1.0
// @description  Membership directory with stateless token-based authentication.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/modernmember/member-directory/internal/api"
	"github.com/modernmember/member-directory/internal/core/service"
	"github.com/modernmember/member-directory/internal/core/token"
	"github.com/modernmember/member-directory/internal/infrastructure/bootstrap"
	"github.com/modernmember/member-directory/internal/infrastructure/config"
	mongodb "github.com/modernmember/member-directory/internal/infrastructure/db/mongo"
	redisdb "github.com/modernmember/member-directory/internal/infrastructure/db/redis"
	"github.com/modernmember/member-directory/internal/infrastructure/queue"
	"github.com/modernmember/member-directory/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Core wiring ---
	memberRepo := mongodb.NewMemberRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	if err := bootstrap.EnsureAdmin(ctx, memberRepo, cfg.Auth, log); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	dispatcher := queue.NewAuditDispatcher(0, auditRepo, log)
	dispatcher.Start(ctx)

	codec := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	validator := token.NewValidator(codec, memberRepo)
	authService := service.NewAuthService(memberRepo, codec, dispatcher, log, cfg.Auth.DefaultPassword)
	memberService := service.NewMemberService(memberRepo, dispatcher, log)

	e := api.NewRouter(api.Deps{
		AuthService:   authService,
		MemberService: memberService,
		AuditRepo:     auditRepo,
		Validator:     validator,
		Mongo:         db,
		Redis:         rdb,
		Config:        cfg,
		Logger:        log,
	})

	// --- Serve until signalled ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("member directory listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
