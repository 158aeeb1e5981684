package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petteraas52-ux/Surat-sub000/internal/admin"
	"github.com/petteraas52-ux/Surat-sub000/internal/auth"
	"github.com/petteraas52-ux/Surat-sub000/internal/calendar"
	"github.com/petteraas52-ux/Surat-sub000/internal/children"
	"github.com/petteraas52-ux/Surat-sub000/internal/comments"
	"github.com/petteraas52-ux/Surat-sub000/internal/config"
	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
	"github.com/petteraas52-ux/Surat-sub000/internal/guestlink"
	"github.com/petteraas52-ux/Surat-sub000/internal/handler"
	"github.com/petteraas52-ux/Surat-sub000/internal/httpmiddleware"
	"github.com/petteraas52-ux/Surat-sub000/internal/objstore"
	"github.com/petteraas52-ux/Surat-sub000/internal/queue"
	"github.com/petteraas52-ux/Surat-sub000/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx := context.Background()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	docs, err := docstore.NewPostgres(ctx, db.Client)
	if err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "nursery:changes")
	}

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	childRepo := children.NewRepository(docs)
	authSvc := auth.NewService(docs, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
	adminSvc := admin.NewService(docs)
	commentSvc := comments.NewService(docs)
	guestLinkSvc := guestlink.NewService(docs)
	eventRepo := calendar.NewRepository(docs)

	h := handler.New(childRepo, authSvc, adminSvc, commentSvc, guestLinkSvc, eventRepo,
		storage, queue.Notifier{Q: q}, cfg.PhotoMaxEdge)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitPerMin, "/healthz", "/metrics").GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/auth/signin", h.SignIn)
	r.POST("/v1/auth/refresh", h.Refresh)

	authGroup := r.Group("/v1", auth.Require(cfg.JWTSigningKey, cfg.JWTIssuer))
	h.RegisterRoutes(authGroup)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// newStorage picks the photo storage backend; nil disables photo routes.
func newStorage(ctx context.Context, cfg config.App) (objstore.Storage, error) {
	switch cfg.StorageBackend {
	case "s3":
		if cfg.S3Bucket == "" {
			log.Println("S3 storage selected but S3_BUCKET not set, photos disabled")
			return nil, nil
		}
		return objstore.NewS3(ctx, cfg.S3Bucket)
	case "cloudinary":
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set), photos disabled")
			return nil, nil
		}
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
		return objstore.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder), nil
	default:
		log.Printf("unknown storage backend %q, photos disabled", cfg.StorageBackend)
		return nil, nil
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
