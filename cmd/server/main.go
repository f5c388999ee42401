package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"vasplink/internal"
	"vasplink/internal/config"
	"vasplink/internal/handlers"
	"vasplink/internal/logger"
	"vasplink/internal/services"
	"vasplink/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Server.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := internal.OpenDB(cfg)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer internal.CloseDB(db)

	ctx := context.Background()
	store, err := storage.NewObjectStore(ctx, cfg.GCS.BucketName, cfg.GCS.CredentialsPath)
	if err != nil {
		log.Fatal("failed to create object store", "error", err)
	}
	defer store.Close()

	pdfService, err := services.NewPDFService(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout, log)
	if err != nil {
		log.Fatal("failed to create pdf service", "error", err)
	}

	// Scratch files live in an app-owned subdirectory so the cleanup sweep
	// never touches anything else in the configured temp dir.
	appTempDir := filepath.Join(cfg.Uploads.TempDir, "vasplink")

	authService := services.NewAuthService(db, log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	templateService := services.NewTemplateService(db, store, log, cfg.Uploads.MaxFileSize, appTempDir)
	documentService := services.NewDocumentService(db, store, templateService, pdfService, log, appTempDir)
	vaspDirectory := services.NewVaspDirectory(cfg.Directory.CSVPath, cfg.Directory.CacheTTL, log)
	activityLog := services.NewActivityLogService(db, log)

	cleanup := services.NewCleanupService(db, log, appTempDir, cfg.Uploads.CleanupMaxAge, cfg.Uploads.CleanupInterval)
	cleanup.Start()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(activityLog.Middleware())

	authHandler := handlers.NewAuthHandler(authService)
	templatesHandler := handlers.NewTemplatesHandler(templateService)
	documentsHandler := handlers.NewDocumentsHandler(documentService)
	vaspsHandler := handlers.NewVaspsHandler(vaspDirectory)
	logsHandler := handlers.NewLogsHandler(activityLog)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		authed := v1.Group("")
		authed.Use(handlers.RequireAuth(authService))
		{
			authed.GET("/markers", handlers.ListMarkers)

			authed.POST("/templates", templatesHandler.Upload)
			authed.GET("/templates", templatesHandler.List)
			authed.GET("/templates/default", templatesHandler.GetDefault)
			authed.GET("/templates/:id", templatesHandler.Get)
			authed.DELETE("/templates/:id", templatesHandler.Delete)
			authed.PUT("/templates/:id/mapping", templatesHandler.UpdateMapping)
			authed.PUT("/templates/:id/default", templatesHandler.SetDefault)
			authed.POST("/templates/:id/preview", documentsHandler.Preview)
			authed.POST("/templates/:id/generate", documentsHandler.Generate)

			authed.GET("/documents", documentsHandler.List)
			authed.GET("/documents/:id", documentsHandler.Get)
			authed.GET("/documents/:id/download", documentsHandler.Download)

			authed.GET("/vasps", vaspsHandler.Search)
			authed.GET("/vasps/:id", vaspsHandler.Get)

			admin := authed.Group("")
			admin.Use(handlers.RequireAdmin())
			{
				admin.GET("/logs", logsHandler.List)
			}
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cleanup.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
}
