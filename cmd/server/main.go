package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"huntguard/internal/activity"
	"huntguard/internal/ammunition"
	"huntguard/internal/auth"
	"huntguard/internal/compliance"
	"huntguard/internal/events"
	"huntguard/internal/hunter"
	"huntguard/internal/realtime"
	"huntguard/internal/sensors"
	"huntguard/pkg/database"
	"huntguard/pkg/middleware"
	"huntguard/pkg/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Printf("✅ Migrations applied")

	// Redis backs the shot event bus and the alert fan-out. Without it the
	// in-process bus keeps detection working on a single instance.
	var rdb *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("❌ Redis connection failed: %v", err)
		}
		log.Printf("✅ [REDIS] Connected to %s", addr)
	}

	var bus events.Bus
	if rdb != nil {
		bus = events.NewRedisBus(rdb, "")
	} else {
		bus = events.NewMemoryBus()
		log.Printf("⚠️ REDIS_ADDR not set, using in-process event bus")
	}

	// Compliance core
	store := compliance.NewGormStore(db)
	notifiers := []compliance.Notifier{&compliance.LogNotifier{}}
	if rdb != nil {
		notifiers = append(notifiers, compliance.NewRedisNotifier(rdb, realtime.AlertChannel))
	}
	detector := compliance.NewDetector(store, compliance.MultiNotifier(notifiers))
	complianceService := compliance.NewService(db, store)

	var exporter *compliance.Exporter
	if bucket := getEnv("REPORTS_BUCKET", ""); bucket != "" {
		s3Client, err := storage.NewClient(ctx, storage.Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "auto"),
			Bucket:    bucket,
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		})
		if err != nil {
			log.Fatalf("❌ Report archive setup failed: %v", err)
		}
		exporter = compliance.NewExporter(store, s3Client)
		log.Printf("✅ [STORAGE] Report archive bucket: %s", bucket)
	}

	// Services
	hunterService := hunter.NewService(db, bus)
	ammoService := ammunition.NewService(db)
	sensorService := sensors.NewService(db)
	activityService := activity.NewService(db)
	authService := auth.NewService(db, mustEnv("JWT_SECRET"))

	// Shots flow: commit -> bus -> detector
	shotEvents, err := bus.SubscribeShotCreated(ctx)
	if err != nil {
		log.Fatalf("❌ Shot event subscription failed: %v", err)
	}
	go runDetection(ctx, shotEvents, detector, activityService)

	// Realtime stream
	hub := realtime.NewHub()
	go hub.Run()
	if rdb != nil {
		go hub.SubscribeAlerts(ctx, rdb)
	}

	simulator := realtime.NewSimulator(realtime.Config{}, hunterService, sensorService, hub)
	wireSimulatorLifecycle(ctx, hub, simulator)

	scheduler := compliance.NewScheduler(complianceService, sensorService)
	scheduler.Start()
	defer scheduler.Stop()

	router := setupRouter(
		hunter.NewHandler(hunterService),
		compliance.NewHandler(complianceService, exporter),
		ammunition.NewHandler(ammoService),
		sensors.NewHandler(sensorService),
		activity.NewHandler(activityService),
		auth.NewHandler(authService),
		authService,
		hub,
	)

	srv := &http.Server{
		Addr:         ":" + getEnv("PORT", "8080"),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("🚀 HuntGuard listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown error: %v", err)
	}
}

// runDetection evaluates every committed shot. A failed evaluation is
// logged and skipped; the subscription stays alive.
func runDetection(ctx context.Context, shots <-chan events.ShotCreated, detector *compliance.Detector, feed *activity.Service) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-shots:
			if !ok {
				return
			}
			violations, err := detector.OnShotCreated(ctx, event.ShotID)
			if err != nil {
				log.Printf("❌ [COMPLIANCE] Detection failed for shot %s: %v", event.ShotID, err)
				continue
			}
			for i := range violations {
				v := &violations[i]
				feed.Record(activity.TypeViolationDetected, activity.PriorityHigh,
					"Violation detected: "+v.Type, v.Description, &v.HunterID,
					map[string]interface{}{"violation_id": v.ID.String(), "severity": v.Severity})
			}
		}
	}
}

// wireSimulatorLifecycle starts the simulator when the first websocket
// client connects and cancels it when the last one leaves.
func wireSimulatorLifecycle(parent context.Context, hub *realtime.Hub, sim *realtime.Simulator) {
	if getEnv("SIMULATOR_ENABLED", "true") != "true" {
		return
	}

	var mu sync.Mutex
	var cancel context.CancelFunc

	hub.OnFirstClient = func() {
		mu.Lock()
		defer mu.Unlock()
		if cancel != nil {
			return
		}
		var simCtx context.Context
		simCtx, cancel = context.WithCancel(parent)
		go sim.Run(simCtx)
	}
	hub.OnLastClient = func() {
		mu.Lock()
		defer mu.Unlock()
		if cancel != nil {
			cancel()
			cancel = nil
		}
	}
}

func setupRouter(
	hunterHandler *hunter.Handler,
	complianceHandler *compliance.Handler,
	ammoHandler *ammunition.Handler,
	sensorHandler *sensors.Handler,
	activityHandler *activity.Handler,
	authHandler *auth.Handler,
	authService *auth.Service,
	hub *realtime.Hub,
) *gin.Engine {
	if getEnv("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "huntguard",
			"ws_clients": hub.ConnectedClients(),
		})
	})

	router.GET("/ws", hub.HandleWebSocket)

	api := router.Group("/api/v1")

	// Public surface: auth only
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService))

	protected.POST("/auth/register", middleware.RequireAdmin(), authHandler.Register)

	// Hunter registry
	hunters := protected.Group("/hunters")
	{
		hunters.POST("", hunterHandler.CreateHunter)
		hunters.GET("", hunterHandler.ListHunters)
		hunters.GET("/active", hunterHandler.ListActiveHunters)
		hunters.GET("/statistics", hunterHandler.GetStatistics)
		hunters.GET("/:id", hunterHandler.GetHunter)
		hunters.PUT("/:id", hunterHandler.UpdateHunter)
		hunters.DELETE("/:id", hunterHandler.DeleteHunter)
		hunters.GET("/:id/guns", hunterHandler.GetHunterGuns)
	}

	// Gun / device registry
	guns := protected.Group("/guns")
	{
		guns.POST("", hunterHandler.RegisterGun)
		guns.GET("", hunterHandler.ListGuns)
		guns.GET("/low-battery", hunterHandler.ListLowBatteryGuns)
		guns.GET("/:id", hunterHandler.GetGun)
		guns.PUT("/:id", hunterHandler.UpdateGun)
		guns.DELETE("/:id", hunterHandler.DeleteGun)
		guns.POST("/:id/shots", hunterHandler.RecordShot)
		guns.PATCH("/:id/device-status", hunterHandler.UpdateDeviceStatus)
	}

	shots := protected.Group("/shots")
	{
		shots.GET("", hunterHandler.ListShots)
		shots.GET("/recent", hunterHandler.ListRecentShots)
	}

	// Compliance
	zones := protected.Group("/compliance/zones")
	{
		zones.POST("", complianceHandler.CreateZone)
		zones.GET("", complianceHandler.ListZones)
		zones.GET("/active", complianceHandler.ListActiveZones)
		zones.GET("/:id", complianceHandler.GetZone)
		zones.PUT("/:id", complianceHandler.UpdateZone)
		zones.DELETE("/:id", complianceHandler.DeleteZone)
	}

	purchases := protected.Group("/compliance/purchases")
	{
		purchases.POST("", complianceHandler.CreatePurchase)
		purchases.GET("", complianceHandler.ListPurchases)
		purchases.GET("/usage-statistics", complianceHandler.GetUsageStats)
		purchases.GET("/violations", complianceHandler.ListOverusedPurchases)
		purchases.POST("/:id/usage", complianceHandler.RecordUsage)
	}

	violations := protected.Group("/compliance/violations")
	{
		violations.GET("", complianceHandler.ListViolations)
		violations.GET("/recent", complianceHandler.ListRecentViolations)
		violations.GET("/statistics", complianceHandler.GetViolationStats)
		violations.POST("/export", complianceHandler.ExportViolations)
		violations.POST("/:id/resolve", complianceHandler.ResolveViolation)
	}

	licenses := protected.Group("/compliance/licenses")
	{
		licenses.POST("", complianceHandler.CreateLicense)
		licenses.GET("", complianceHandler.ListLicenses)
		licenses.GET("/expiring-soon", complianceHandler.ListExpiringLicenses)
		licenses.GET("/statistics", complianceHandler.GetLicenseStats)
		licenses.PUT("/:id", complianceHandler.UpdateLicense)
		licenses.POST("/:id/suspend", complianceHandler.SuspendLicense)
	}

	// Warehouse
	ammo := protected.Group("/ammunition")
	{
		ammo.POST("", ammoHandler.CreateStock)
		ammo.GET("", ammoHandler.ListStock)
		ammo.GET("/low-stock", ammoHandler.ListLowStock)
		ammo.GET("/inventory", ammoHandler.GetInventorySummary)
		ammo.GET("/:id", ammoHandler.GetStock)
		ammo.POST("/:id/transactions", ammoHandler.RecordTransaction)
		ammo.GET("/:id/transactions", ammoHandler.ListTransactions)
	}

	// Field sensors
	sensorsGroup := protected.Group("/sensors")
	{
		sensorsGroup.POST("/devices", sensorHandler.RegisterDevice)
		sensorsGroup.GET("/devices", sensorHandler.ListDevices)
		sensorsGroup.GET("/devices/online", sensorHandler.ListOnlineDevices)
		sensorsGroup.PUT("/devices/:device_id/status", sensorHandler.UpdateDeviceStatus)
		sensorsGroup.POST("/readings", sensorHandler.RecordReading)
		sensorsGroup.GET("/readings/latest", sensorHandler.LatestReadings)
		sensorsGroup.GET("/readings/anomalies", sensorHandler.ListAnomalies)
		sensorsGroup.GET("/readings/statistics", sensorHandler.GetStatistics)
	}

	// Activity feed
	activities := protected.Group("/activities")
	{
		activities.GET("", activityHandler.List)
		activities.GET("/unread", activityHandler.ListUnread)
		activities.POST("/read-all", activityHandler.MarkAllRead)
		activities.POST("/:id/read", activityHandler.MarkRead)
	}

	return router
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("❌ %s must be set", key)
	}
	return value
}
