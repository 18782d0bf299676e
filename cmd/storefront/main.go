package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kaira_store/internal/config"
	"github.com/GTDGit/kaira_store/internal/database"
	"github.com/GTDGit/kaira_store/internal/handler"
	"github.com/GTDGit/kaira_store/internal/middleware"
	"github.com/GTDGit/kaira_store/internal/repository"
	"github.com/GTDGit/kaira_store/internal/service"
	"github.com/GTDGit/kaira_store/internal/session"
	"github.com/GTDGit/kaira_store/internal/storage"
	"github.com/GTDGit/kaira_store/internal/web"
)

// main is the application entrypoint for the KAIRA storefront.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting kaira storefront")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Upload store
	uploads, err := newUploadStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("upload store init failed")
		fmt.Fprintf(os.Stderr, "upload store init failed: %v\n", err)
		os.Exit(1)
	}

	// 5. Schema and demo data
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Error().Err(err).Msg("schema setup failed")
		fmt.Fprintf(os.Stderr, "schema setup failed: %v\n", err)
		os.Exit(1)
	}
	if err := service.NewSeeder(repository.NewProductRepository(db), uploads).SeedIfEmpty(ctx); err != nil {
		log.Warn().Err(err).Msg("initial seed failed, will retry on first home page view")
	}

	// 6. Admin gate and sessions
	gate, err := service.NewAdminGate(&cfg.Admin, &cfg.Session)
	if err != nil {
		log.Error().Err(err).Msg("admin gate init failed")
		os.Exit(1)
	}
	sessions := session.NewManager(&cfg.Session)

	tmpl, err := web.Templates()
	if err != nil {
		log.Error().Err(err).Msg("template parsing failed")
		os.Exit(1)
	}

	// 7. Initialize handlers
	render := handler.NewRenderer(gate, sessions)
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(db),
		Storefront: handler.NewStorefrontHandler(render, uploads),
		Auth:       handler.NewAuthHandler(render, gate, sessions),
		Admin:      handler.NewAdminHandler(render, uploads),
		Upload:     handler.NewUploadHandler(uploads),
	}

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.BodyLimit(cfg.Upload.MaxBytes))
	router.Use(middleware.DBLease(db))
	setupRoutes(router, handlers, middleware.RequireAdmin(gate, sessions))

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Storefront *handler.StorefrontHandler
	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
	Upload     *handler.UploadHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, requireAdmin gin.HandlerFunc) {
	router.GET("/healthz", handlers.Health.GetHealth)
	router.GET("/static/uploads/:name", handlers.Upload.Serve)

	// Public catalog
	router.GET("/", handlers.Storefront.Home)
	router.GET("/product/:id", handlers.Storefront.ProductDetail)

	// Sign in / out
	router.GET("/admin/login", handlers.Auth.LoginForm)
	router.POST("/admin/login", handlers.Auth.Login)
	router.GET("/admin/logout", handlers.Auth.Logout)

	// Admin area (session required)
	admin := router.Group("/admin")
	admin.Use(requireAdmin)
	{
		admin.GET("", handlers.Admin.Dashboard)
		admin.GET("/products", handlers.Admin.Products)
		admin.GET("/products/add", handlers.Admin.AddForm)
		admin.POST("/products/add", handlers.Admin.Add)
		admin.GET("/products/:id/edit", handlers.Admin.EditForm)
		admin.POST("/products/:id/edit", handlers.Admin.Edit)
		admin.POST("/products/:id/delete", handlers.Admin.Delete)
	}
}

// newUploadStore picks MinIO when an endpoint is configured, else the local directory.
func newUploadStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Minio.Enabled() {
		store, err := storage.NewMinioStore(ctx, &cfg.Minio)
		if err != nil {
			return nil, err
		}
		log.Info().Str("endpoint", cfg.Minio.Endpoint).Str("bucket", cfg.Minio.Bucket).Msg("Using MinIO upload store")
		return store, nil
	}
	store, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dir", store.Dir()).Msg("Using local upload store")
	return store, nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
