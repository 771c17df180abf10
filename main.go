// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go-youth-feed/config"
	"go-youth-feed/controllers"
	"go-youth-feed/gateway"
	"go-youth-feed/logger"
	"go-youth-feed/metrics"
	"go-youth-feed/middleware"
	"go-youth-feed/services"
	"go-youth-feed/websocket"
)

func main() {
	cfg := config.Load()
	if err := logger.InitLogger(cfg.LogDir); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer func() { _ = logger.Close() }()
	logger.SetLogLevel(cfg.Environment)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, mem, closeGateway, err := openGateway(ctx, cfg)
	if err != nil {
		logger.Error.Fatalf("Failed to open %s gateway: %v", cfg.Gateway, err)
	}
	defer closeGateway()

	pub := openMetrics(cfg)
	hub := websocket.NewHub(pub)
	go hub.Run(ctx)

	router := setupRouter(cfg, gw, mem, hub, pub)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("Shutdown: %v", err)
	}
}

// openGateway selects the Postgres+S3 or in-memory backend. mem is non-nil
// only for the in-memory backend, whose objects are served under /storage.
func openGateway(ctx context.Context, cfg *config.Config) (gateway.Gateway, *gateway.Memory, func(), error) {
	switch cfg.Gateway {
	case "postgres":
		pg, err := gateway.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return gateway.Gateway{}, nil, nil, err
		}
		objects, err := gateway.NewS3Objects(gateway.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			_ = pg.Close()
			return gateway.Gateway{}, nil, nil, err
		}
		logger.Info.Printf("Gateway: postgres records, s3 bucket %s", cfg.S3Bucket)
		closeFn := func() {
			if err := pg.Close(); err != nil {
				logger.Error.Printf("Gateway: close: %v", err)
			}
		}
		return gateway.Gateway{Identity: pg, Records: pg, Objects: objects}, nil, closeFn, nil

	case "memory":
		mem := gateway.NewMemory(strings.TrimRight(cfg.ApplicationURL, "/") + "/storage")
		logger.Warn.Println("Gateway: using in-memory store; data is lost on restart")
		return mem.Gateway(), mem, func() {}, nil
	}
	return gateway.Gateway{}, nil, nil, errors.New("unknown GATEWAY " + cfg.Gateway)
}

func openMetrics(cfg *config.Config) metrics.Publisher {
	if !cfg.MetricsEnabled {
		return metrics.Noop{}
	}
	cw, err := metrics.NewCloudWatch(cfg.S3Region, cfg.Environment)
	if err != nil {
		logger.Error.Printf("Metrics: CloudWatch unavailable, metrics disabled: %v", err)
		return metrics.Noop{}
	}
	return cw
}

// websocketURL turns http(s)://host into ws(s)://host/ws/feeds.
func websocketURL(appURL string) string {
	u := strings.TrimRight(appURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws/feeds"
}

func setupRouter(cfg *config.Config, gw gateway.Gateway, mem *gateway.Memory, hub *websocket.Hub, pub metrics.Publisher) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret), []byte(cfg.SessionEncryptionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("youthfeed", store))

	templates := filepath.Join(cfg.TemplatesDir, "*.html")
	logger.Info.Println("Templates Path:", templates)
	router.LoadHTMLGlob(templates)

	feeds := services.NewFeedService(gw.Records, hub, pub)
	images := services.NewImageService(gw.Objects)
	registration := services.NewRegistration(gw.Identity, gw.Records, pub)

	pages := controllers.NewPageController(feeds, cfg.ApplicationURL, websocketURL(cfg.ApplicationURL))
	auth := controllers.NewAuthController(gw.Identity, cfg.IsAdmin)
	signup := controllers.NewSignupController(registration, cfg.IsAdmin)
	api := controllers.NewFeedController(feeds, images)
	admin := controllers.NewAdminController(feeds, images)

	// Public routes
	router.GET("/health", controllers.Health)
	router.GET("/", pages.Landing)
	router.GET("/login", auth.ShowLoginPage)
	router.POST("/login", auth.PerformLogin)
	router.GET("/logout", auth.Logout)
	router.GET("/signup", signup.ShowSignup)
	router.POST("/signup", signup.SubmitSignup)
	router.GET("/signup/complete", signup.SignupComplete)
	router.GET("/qrcode", pages.GetQRCode)
	router.POST("/api/signup", signup.SignupAPI)
	router.GET("/api/feeds", api.ListFeeds)
	router.GET("/api/feeds/:id", api.GetFeed)
	router.GET("/ws/feeds", gin.WrapF(hub.ServeWs(websocket.NewUpgrader(cfg.ApplicationURL))))
	if mem != nil {
		router.GET("/storage/*path", controllers.ServeStorage(mem))
	}

	// Signed-in routes
	protected := router.Group("/", middleware.AuthRequired)
	{
		protected.GET("/feed", pages.ShowFeed)
	}

	// Admin routes
	adminGroup := router.Group("/", middleware.AuthRequired, middleware.AdminRequired())
	{
		adminGroup.GET("/admin/feed", admin.ShowEditor)
		adminGroup.POST("/admin/feed", admin.SubmitCreate)
		adminGroup.GET("/admin/feed/edit/:id", admin.ShowEditForm)
		adminGroup.POST("/admin/feed/edit/:id", admin.SubmitEdit)
		adminGroup.POST("/admin/feed/delete/:id", admin.DeleteItem)

		adminGroup.POST("/api/feeds", api.CreateFeed)
		adminGroup.DELETE("/api/feeds/del", api.DeleteFeedByBody)
		adminGroup.PUT("/api/feeds/:id", api.UpdateFeed)
		adminGroup.DELETE("/api/feeds/:id", api.DeleteFeed)
		adminGroup.POST("/api/uploads", api.UploadImage)
	}

	return router
}
