package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/taskhub/taskhub/backend/go-services/handlers"
	"github.com/taskhub/taskhub/backend/go-services/internal/auth"
	"github.com/taskhub/taskhub/backend/go-services/internal/config"
	"github.com/taskhub/taskhub/backend/go-services/internal/database"
	"github.com/taskhub/taskhub/backend/go-services/internal/oidc"
	"github.com/taskhub/taskhub/backend/go-services/internal/revocation"
	"github.com/taskhub/taskhub/backend/go-services/internal/storage"
	"github.com/taskhub/taskhub/backend/go-services/internal/tasks"
	"github.com/taskhub/taskhub/backend/go-services/internal/users"
	"github.com/taskhub/taskhub/backend/go-services/pkg/logger"
	"github.com/taskhub/taskhub/backend/go-services/pkg/metrics"
	"github.com/taskhub/taskhub/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: oidc=%v mongo=%v redis=%v", cfg.OIDC.IssuerURL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// shared runtime vars used by handlers/readiness
	var verifier auth.Verifier
	var userSvc *users.Service
	var taskSvc *tasks.Service
	var revoked *revocation.List

	// Connect to Redis early so the rate-limiter and revocation list can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			revoked = revocation.NewList(redisClient, "")
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["storage"] = userSvc != nil && taskSvc != nil
		if !deps["storage"] {
			ready = false
		}

		// identity readiness: with an issuer configured we expect a verifier
		if cfg.OIDC.IssuerURL != "" {
			deps["oidc"] = verifier != nil
			if !deps["oidc"] {
				ready = false
			}
		} else {
			deps["oidc"] = true
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	// Identity provider verifier: OIDC when configured, HS256 static verifier
	// as an explicit dev fallback.
	ctx := context.Background()
	if cfg.OIDC.IssuerURL != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.Init(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID)
		if err != nil {
			logger.Errorf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && cfg.Auth.DevSecret != "" {
		logger.Warn("using HS256 static verifier (dev/integration mode)")
		verifier = oidc.NewStaticVerifier(cfg.Auth.DevSecret)
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races
	if cfg.MongoDB.URI != "" {
		client, errConn := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB: %v", errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)
			userSvc = users.NewService(users.NewMongoRepository(db.Collection("users")))
			taskSvc = tasks.NewService(tasks.NewMongoRepository(db.Collection("tasks")))
		}
	}

	// Optional MinIO-backed attachment store
	var store *storage.AttachmentStore
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		s, err := storage.NewAttachmentStore(mcfg)
		if err != nil {
			logger.Warnf("attachment store unavailable: %v", err)
		} else {
			store = s
		}
	}

	// Authenticated API routes
	if verifier != nil && userSvc != nil && taskSvc != nil {
		gate := auth.NewGate(verifier, userSvc, revoked, cfg.Auth.VerifyTimeout)
		api := r.Group("/api", middleware.Authenticate(gate))
		handlers.NewTaskHandler(taskSvc, store).Register(api.Group("/tasks"))
		handlers.NewUserHandler(userSvc).Register(api.Group("/users"))
	} else {
		logger.Warnf("api routes not registered: verifier=%v users=%v tasks=%v", verifier != nil, userSvc != nil, taskSvc != nil)
	}

	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting taskhub API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
