package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/adelaidehub/studyhub-server/internal/api/http/handler"
	"github.com/adelaidehub/studyhub-server/internal/api/http/middleware"
	"github.com/adelaidehub/studyhub-server/internal/api/http/router"
	httpServer "github.com/adelaidehub/studyhub-server/internal/api/http/server"
	"github.com/adelaidehub/studyhub-server/internal/config"
	"github.com/adelaidehub/studyhub-server/internal/logger"
	"github.com/adelaidehub/studyhub-server/internal/model"
	"github.com/adelaidehub/studyhub-server/internal/repository/postgres"
	"github.com/adelaidehub/studyhub-server/internal/server"
	"github.com/adelaidehub/studyhub-server/internal/service"
	storage "github.com/adelaidehub/studyhub-server/internal/storage/minio"
	"github.com/adelaidehub/studyhub-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	resourceRepo := postgres.NewResourceRepository(db)
	groupRepo := postgres.NewStudyGroupRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Lifetime())

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	authService := service.NewAuth(userRepo, storageClient, tokenManager, logger)
	resourceService := service.NewResource(resourceRepo, storageClient, logger)
	groupService := service.NewStudyGroup(groupRepo, logger)

	cookie := handler.CookieConfig{
		Name:   cfg.JWT.CookieName,
		MaxAge: int(cfg.JWT.Lifetime().Seconds()),
		Secure: cfg.HTTP.SecureCookie,
	}

	api := router.New(router.Config{
		Auth:           handler.NewAuth(authService, cookie, logger),
		Resource:       handler.NewResource(resourceService, logger),
		StudyGroup:     handler.NewStudyGroup(groupService, logger),
		Authenticate:   middleware.NewAuthenticate(tokenManager, userRepo, cfg.JWT.CookieName, logger),
		Logging:        middleware.NewLogging(logger),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	apiServer := httpServer.NewHTTPServer(api, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(apiServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", apiServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
