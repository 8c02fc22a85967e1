package main

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/securecomm/backend/handlers"
	"github.com/securecomm/backend/logger"
	"github.com/securecomm/backend/natsserver"
	"github.com/securecomm/backend/services"
	"github.com/securecomm/backend/session"
	"github.com/securecomm/backend/source"
	"github.com/securecomm/backend/store"
)

func main() {
	// Load environment variables; .env is optional
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), "securecomm-backend")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		jwtSecret = []byte("default-dev-secret-change-me")
		log.Warn("JWT_SECRET not set, using development default")
	}

	st := store.New(envInt("MESSAGE_LOG_CAP", store.DefaultMessageCap))

	sessions := session.NewStore(jwtSecret, 0)
	if err := sessions.SeedDemoUsers(); err != nil {
		log.Fatal("failed to seed demo users", zap.Error(err))
	}

	// Snapshot feed: poll an external NATS endpoint when SOURCE_URL is
	// set, otherwise run self-contained with an embedded NATS server
	// answering snapshot requests from the simulated feed.
	var embedded *natsserver.EmbeddedNATS
	var conn *nats.Conn
	if url := os.Getenv("SOURCE_URL"); url != "" {
		conn, err = nats.Connect(url)
		if err != nil {
			log.Fatal("failed to connect to snapshot feed", zap.String("url", url), zap.Error(err))
		}
		defer conn.Close()
		log.Info("polling external snapshot feed", zap.String("url", url))
	} else {
		cfg := natsserver.DefaultConfig()
		cfg.Port = envInt("NATS_PORT", 4233)
		embedded, err = natsserver.New(cfg)
		if err != nil {
			log.Fatal("failed to start embedded NATS server", zap.Error(err))
		}
		defer embedded.Shutdown()
		conn = embedded.Conn()

		responder, err := source.NewResponder(conn, source.NewSimSource(0), log)
		if err != nil {
			log.Fatal("failed to start snapshot responder", zap.Error(err))
		}
		defer responder.Close()
		log.Info("embedded NATS server started, serving simulated feed", zap.Int("port", embedded.Port()))
	}

	poller := services.NewPoller(source.NewNATSSource(conn), st, log, services.PollerConfig{
		MessageInterval: time.Duration(envInt("MESSAGE_REFRESH_SECONDS", 5)) * time.Second,
		VehicleInterval: time.Duration(envInt("VEHICLE_REFRESH_SECONDS", 0)) * time.Second,
		NodeInterval:    time.Duration(envInt("NODE_REFRESH_SECONDS", 0)) * time.Second,
		AlertInterval:   time.Duration(envInt("ALERT_REFRESH_SECONDS", 0)) * time.Second,
	})
	defer poller.Stop()

	handlers.Init(st, poller, sessions, log)

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// API Routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", handlers.Login)

		authed := api.Group("", handlers.AuthMiddleware())
		{
			authed.POST("/auth/logout", handlers.Logout)
			authed.GET("/auth/me", handlers.Me)

			// Dashboard views require a completed initial load
			views := authed.Group("", handlers.ReadyGuard())
			{
				views.GET("/overview", handlers.GetOverview)
				views.GET("/vehicles", handlers.GetVehicles)
				views.GET("/nodes", handlers.GetNodes)
				views.GET("/messages", handlers.GetMessages)
				views.GET("/alerts", handlers.GetAlerts)
				views.PATCH("/alerts/:id/resolve", handlers.ResolveAlert)
				views.GET("/topology", handlers.GetTopology)
				views.GET("/security/summary", handlers.GetSecuritySummary)
				views.GET("/analytics", handlers.GetAnalytics)
				views.GET("/export", handlers.ExportData)
			}
		}

		if embedded != nil {
			api.GET("/feed/stats", func(c *gin.Context) {
				c.JSON(200, embedded.GetStats())
			})
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	log.Info("server running", zap.String("addr", "http://localhost:"+port))
	if err := router.Run(":" + port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
