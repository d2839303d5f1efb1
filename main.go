package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/datacat/asset-service/internal/assets"
	"github.com/datacat/asset-service/internal/assets/handler"
	"github.com/datacat/asset-service/internal/config"
	"github.com/datacat/asset-service/internal/database"
	"github.com/datacat/asset-service/pkg/logger"
	"github.com/datacat/asset-service/pkg/metrics"
	"github.com/datacat/asset-service/pkg/middleware"
)

type dbPinger struct {
	db *gorm.DB
}

func (p dbPinger) Ping(c *gin.Context) error {
	sqldb, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqldb.PingContext(c.Request.Context())
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(c *gin.Context) error {
	return p.client.Ping(c.Request.Context()).Err()
}

// setup wires the service from configuration. Any failure here is a fatal
// startup condition, but it is returned rather than exiting so main (or an
// embedding test) decides how to react.
func setup(ctx context.Context, cfg *config.Config) (*gin.Engine, error) {
	db, err := database.Connect(ctx, cfg.Database.DSN(), cfg.Database.Timeout)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	logger.Infof("connected to database (%s:%s)", cfg.Database.Host, cfg.Database.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.Timeout,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis (%s): %w", cfg.Redis.Addr(), err)
	}
	logger.Infof("connected to redis (%s)", cfg.Redis.Addr())

	svc := assets.NewService(assets.NewGormStore(db), assets.NewRedisCache(rdb, cfg.Cache.TTL))

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	handler.RegisterAssetRoutes(r, svc, dbPinger{db: db}, redisPinger{client: rdb})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r, nil
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	r, err := setup(context.Background(), cfg)
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting asset service on %s (cache TTL %s)", addr, cfg.Cache.TTL)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
