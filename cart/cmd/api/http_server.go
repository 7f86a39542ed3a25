package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/giovaniif/fusion-store/cart/infra/gateways"
	"github.com/giovaniif/fusion-store/cart/infra/repositories"
	"github.com/giovaniif/fusion-store/cart/protocols"
	"github.com/giovaniif/fusion-store/cart/use_cases/additem"
	"github.com/giovaniif/fusion-store/cart/use_cases/clearcart"
	"github.com/giovaniif/fusion-store/cart/use_cases/removeitem"
	"github.com/giovaniif/fusion-store/cart/use_cases/updateitem"
	"github.com/giovaniif/fusion-store/cart/use_cases/viewcart"
	"github.com/giovaniif/fusion-store/config"
	"github.com/giovaniif/fusion-store/infra/logging"
	"github.com/giovaniif/fusion-store/infra/loki"
	"github.com/giovaniif/fusion-store/infra/metrics"
	"github.com/giovaniif/fusion-store/infra/requestid"
	"github.com/giovaniif/fusion-store/infra/respond"
	"github.com/giovaniif/fusion-store/infra/server"
	"github.com/giovaniif/fusion-store/infra/tracing"
)

const serviceName = "cart"

type Dependencies struct {
	CartStore        protocols.CartStore
	ProductDirectory protocols.ProductDirectory
	Logger           *zap.Logger
	StoreName        string
}

func NewRouter(deps Dependencies) *gin.Engine {
	h := &cartHandlers{
		logger:     deps.Logger,
		viewCart:   viewcart.NewViewCart(deps.CartStore, deps.ProductDirectory),
		addItem:    additem.NewAddItem(deps.CartStore, deps.ProductDirectory),
		updateItem: updateitem.NewUpdateItem(deps.CartStore, deps.ProductDirectory),
		removeItem: removeitem.NewRemoveItem(deps.CartStore, deps.ProductDirectory),
		clearCart:  clearcart.NewClearCart(deps.CartStore, deps.ProductDirectory),
	}

	r := gin.New()
	r.Use(respond.Recovery(deps.Logger))
	r.Use(requestid.Middleware())
	r.Use(tracing.Middleware(serviceName))
	r.Use(logging.Middleware(deps.Logger))
	r.Use(metrics.Middleware)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/health", func(c *gin.Context) {
		status, check := "healthy", "up"
		if err := deps.CartStore.Ping(c.Request.Context()); err != nil {
			status, check = "degraded", "down"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "checks": gin.H{deps.StoreName: check}})
	})

	cart := r.Group("/cart", cartSession)
	cart.GET("", h.get)
	cart.DELETE("", h.clear)
	cart.POST("/items", h.add)
	cart.PATCH("/items/:productId", h.update)
	cart.DELETE("/items/:productId", h.remove)

	return r
}

func StartServer() {
	loader, err := config.NewLoader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := loader.Cart()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var sinks []zapcore.WriteSyncer
	lokiWriter := loki.NewWriter(cfg.LokiURL, serviceName)
	if lokiWriter != nil {
		defer lokiWriter.Close()
		sinks = append(sinks, lokiWriter)
	}
	logger, err := logging.New(serviceName, cfg.LogLevel, cfg.Environment, sinks...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := server.WithSignals(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("Tracing disabled", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	store, closeStore, err := newCartStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Cart store unavailable", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer closeStore()

	productGateway := gateways.NewProductGatewayHttp(&http.Client{Timeout: cfg.ProductTimeout}, cfg.ProductServiceURL)

	router := NewRouter(Dependencies{
		CartStore:        store,
		ProductDirectory: productGateway,
		Logger:           logger,
		StoreName:        cfg.Store,
	})

	logger.Info("Cart is starting",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.Store),
		zap.String("product_service", cfg.ProductServiceURL),
	)
	if err := server.Run(ctx, server.New(cfg.Port, router), logger); err != nil {
		logger.Error("HTTP server failed", zap.Error(err))
	}
}

func newCartStore(ctx context.Context, cfg *config.CartConfig, logger *zap.Logger) (protocols.CartStore, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Cart store: Redis", zap.Duration("ttl", cfg.RedisTTL))
		return repositories.NewCartRepositoryRedis(rdb, cfg.RedisTTL, cfg.LockTTL), func() { _ = rdb.Close() }, nil
	case config.StorePostgres:
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err := repositories.OpenPostgres(openCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := repositories.NewCartRepositoryPostgres(db)
		if err := repo.Migrate(openCtx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		logger.Info("Cart store: Postgres")
		return repo, func() { _ = db.Close() }, nil
	default:
		logger.Info("Cart store: in-memory (set CART_STORE=redis or postgres to persist carts)")
		return repositories.NewCartRepositoryMemory(), func() {}, nil
	}
}
