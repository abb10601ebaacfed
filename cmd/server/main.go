package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"evently/internal/admin"
	"evently/internal/cart"
	"evently/internal/catalog"
	"evently/internal/checkout"
	"evently/internal/common/aws"
	"evently/internal/common/config"
	"evently/internal/common/database"
	"evently/internal/common/logger"
	"evently/internal/common/metrics"
	"evently/internal/common/observability"
	"evently/internal/gateway"
	"evently/internal/intake/chat"
	"evently/internal/intake/fallback"
	"evently/internal/intake/session"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting evently server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch ---
	// The client is lazy, so it is created unconditionally; the ping
	// retry only runs when search is enabled. Handlers degrade when
	// the index is unreachable.
	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch client failed", zap.Error(err))
	}
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init receipt delivery clients ---
	var emailSender checkout.EmailSender
	var smsSender checkout.SMSSender
	if cfg.Checkout.EmailEnabled || cfg.Checkout.SMSEnabled {
		awsCfg, err := aws.LoadConfig(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config failed", zap.Error(err))
		}
		if cfg.Checkout.EmailEnabled {
			emailSender = aws.NewSESClient(awsCfg)
		}
		if cfg.Checkout.SMSEnabled {
			smsSender = aws.NewSNSClient(awsCfg)
		}
	}

	// --- Wire services ---
	catalogStore := catalog.NewCachedStore(catalog.NewStore(pg.DB, log), rdb.Client, log)
	catalogSearch := catalog.NewSearchIndex(esClient.Client, log)
	catalogHandler := catalog.NewHandler(catalogStore, catalogSearch, log)

	cartStore := cart.NewStore(rdb.Client, log)
	cartHandler := cart.NewHandler(cartStore, log)

	analytics := admin.NewAnalytics(esClient.Client, log)

	notifier := checkout.NewNotifier(cfg.Checkout, emailSender, smsSender, log)
	checkoutStore := checkout.NewStore(pg.DB, log)
	checkoutService := checkout.NewService(checkoutStore, cartStore, notifier, analytics, log)
	checkoutHandler := checkout.NewHandler(checkoutService, checkoutStore, log)

	adminHandler := admin.NewHandler(admin.NewDiscountStore(pg.DB, log), analytics, log)

	chatHandler := gateway.NewHandler(cfg.Chat, log)
	wsHandler := gateway.NewWSHandler(func() *session.Session {
		streamer := chat.NewClient(cfg.Chat.EndpointURL, cfg.Chat.APIKey)
		responder := fallback.New(time.Duration(cfg.Chat.CharInterval) * time.Millisecond)
		return session.New(streamer, responder, log)
	}, obs, log)

	// --- HTTP router ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestMetrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})

	api := router.Group("/api")
	{
		api.POST("/chat", chatHandler.Chat)
		api.GET("/chat/ws", wsHandler.Serve)
		api.POST("/intake/extract", chatHandler.Extract)

		api.GET("/vendors", catalogHandler.ListVendors)
		api.GET("/vendors/search", catalogHandler.SearchVendors)
		api.GET("/vendors/:id", catalogHandler.GetVendor)
		api.GET("/vendors/:id/services", catalogHandler.ListVendorServices)

		api.GET("/cart", cartHandler.GetCart)
		api.DELETE("/cart", cartHandler.ClearCart)
		api.POST("/cart/items", cartHandler.AddToCart)
		api.DELETE("/cart/items/:serviceId", cartHandler.RemoveFromCart)

		api.GET("/wishlist", cartHandler.GetWishlist)
		api.POST("/wishlist/items", cartHandler.AddToWishlist)
		api.DELETE("/wishlist/items/:serviceId", cartHandler.RemoveFromWishlist)
		api.POST("/wishlist/items/:serviceId/move", cartHandler.MoveToCart)

		api.POST("/checkout", checkoutHandler.Checkout)
		api.POST("/checkout/discount", checkoutHandler.PreviewDiscount)
		api.GET("/orders", checkoutHandler.ListOrders)
		api.GET("/orders/:id", checkoutHandler.GetOrder)

		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/vendors", catalogHandler.CreateVendor)
			adminGroup.POST("/vendors/:id/services", catalogHandler.CreateService)
			adminGroup.GET("/discounts", adminHandler.ListDiscounts)
			adminGroup.POST("/discounts", adminHandler.CreateDiscount)
			adminGroup.DELETE("/discounts/:id", adminHandler.DeactivateDiscount)
			adminGroup.GET("/analytics/orders", adminHandler.OrdersPerDay)
			adminGroup.GET("/analytics/revenue", adminHandler.RevenueByCategory)
		}
	}

	// --- Metrics endpoint on its own port ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := ":" + strconv.Itoa(cfg.Server.MetricsPort)
		zapLog.Info("Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("metrics server stopped", zap.Error(err))
		}
	}()

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		zapLog.Info("API server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown was not clean", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}

// requestMetrics records per-route counters and latency histograms.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
