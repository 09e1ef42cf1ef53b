package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	myPostgresRepo "github.com/Miraines/Connecto/auth-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/Connecto/auth-service/internal/adapters/db/redis"
	"github.com/Miraines/Connecto/auth-service/internal/adapters/notifier"
	myHTTP "github.com/Miraines/Connecto/auth-service/internal/adapters/transport/http"
	httpmw "github.com/Miraines/Connecto/auth-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/Connecto/auth-service/internal/app/auth/google"
	appjwt "github.com/Miraines/Connecto/auth-service/internal/app/auth/jwt"
	"github.com/Miraines/Connecto/auth-service/internal/app/auth/otp"
	appsvc "github.com/Miraines/Connecto/auth-service/internal/app/auth/service"
	"github.com/Miraines/Connecto/auth-service/internal/infra/config"
	lg "github.com/Miraines/Connecto/auth-service/internal/infra/log"
	"github.com/Miraines/Connecto/auth-service/internal/infra/migrate"
	"golang.org/x/sync/errgroup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	mailer, err := notifier.New(cfg)
	if err != nil {
		zapLog.Fatal("failed to init notifier", zap.Error(err))
	}

	jwtUtil, err := appjwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	throttle := myRedisRepo.NewRedisThrottleRepo(redisCli)
	gverify := google.NewOAuthVerifier(cfg)
	otpGen := otp.NewGenerator(cfg.OTPTTL)
	validate := validator.New()

	svc := appsvc.New(userRepo, throttle, jwtUtil, mailer, gverify, otpGen, cfg, validate, zapLog)
	handler := myHTTP.NewHandler(svc, zapLog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))
	router.Use(httpmw.NewRateLimitPerIP(50, 100, 10_000, time.Hour))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	handler.Register(router)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	rootCtx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
