package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/giovaniif/fusion-store/config"
	"github.com/giovaniif/fusion-store/infra/kafka"
	"github.com/giovaniif/fusion-store/infra/logging"
	"github.com/giovaniif/fusion-store/infra/loki"
	"github.com/giovaniif/fusion-store/infra/metrics"
	"github.com/giovaniif/fusion-store/infra/requestid"
	"github.com/giovaniif/fusion-store/infra/respond"
	"github.com/giovaniif/fusion-store/infra/server"
	"github.com/giovaniif/fusion-store/infra/tracing"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/infra/auth"
	"github.com/giovaniif/fusion-store/product/infra/gateways"
	"github.com/giovaniif/fusion-store/product/infra/repositories"
	"github.com/giovaniif/fusion-store/product/protocols"
	"github.com/giovaniif/fusion-store/product/use_cases/createproduct"
	"github.com/giovaniif/fusion-store/product/use_cases/deleteproduct"
	"github.com/giovaniif/fusion-store/product/use_cases/getproduct"
	"github.com/giovaniif/fusion-store/product/use_cases/listproducts"
	"github.com/giovaniif/fusion-store/product/use_cases/notify"
	"github.com/giovaniif/fusion-store/product/use_cases/reservestock"
	"github.com/giovaniif/fusion-store/product/use_cases/sellerproducts"
	"github.com/giovaniif/fusion-store/product/use_cases/updateproduct"
)

const serviceName = "product"

type Dependencies struct {
	Repository    product.Repository
	Uploader      protocols.AssetUploader
	Publisher     protocols.EventPublisher
	Authenticator *auth.Authenticator
	Logger        *zap.Logger
	StoreName     string
}

func NewRouter(deps Dependencies) *gin.Engine {
	notifier := notify.NewNotifier(deps.Publisher, deps.Logger)
	h := &productHandlers{
		logger:         deps.Logger,
		createProduct:  createproduct.NewCreateProduct(deps.Repository, deps.Uploader, notifier),
		listProducts:   listproducts.NewListProducts(deps.Repository),
		getProduct:     getproduct.NewGetProduct(deps.Repository),
		updateProduct:  updateproduct.NewUpdateProduct(deps.Repository, notifier),
		deleteProduct:  deleteproduct.NewDeleteProduct(deps.Repository, notifier),
		sellerProducts: sellerproducts.NewSellerProducts(deps.Repository),
		reserveStock:   reservestock.NewReserveStock(deps.Repository, notifier),
	}
	authn := deps.Authenticator
	managers := authn.Require(auth.RoleAdmin, auth.RoleSeller)

	r := gin.New()
	r.Use(respond.Recovery(deps.Logger))
	r.Use(requestid.Middleware())
	r.Use(tracing.Middleware(serviceName))
	r.Use(logging.Middleware(deps.Logger))
	r.Use(metrics.Middleware)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/health", func(c *gin.Context) {
		status, check := "healthy", "up"
		if err := deps.Repository.Ping(c.Request.Context()); err != nil {
			status, check = "degraded", "down"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "checks": gin.H{deps.StoreName: check}})
	})

	products := r.Group("/products")
	products.GET("", h.list)
	products.POST("", managers, h.create)
	products.GET("/seller", authn.Optional(), h.seller)
	products.GET("/:id", h.get)
	products.PATCH("/:id", managers, h.update)
	products.DELETE("/:id", managers, h.delete)
	products.POST("/:id/reserve", h.reserve)

	return r
}

func StartServer() {
	loader, err := config.NewLoader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := loader.Product()
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

	repository, closeStore, err := newProductRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Product store unavailable", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer closeStore()

	publisher, closePublisher := newEventPublisher(cfg, logger)
	defer closePublisher()

	var uploader protocols.AssetUploader = gateways.DisabledUploader{}
	if cfg.ImageKit.Enabled() {
		uploader = gateways.NewImageKitGatewayHttp(&http.Client{Timeout: 30 * time.Second}, cfg.ImageKit.UploadURL, cfg.ImageKit.PrivateKey)
	} else {
		logger.Warn("ImageKit is not configured, image uploads will fail")
	}
	if cfg.AuthDisabled {
		logger.Warn("Authentication disabled, requests run anonymously")
	}

	router := NewRouter(Dependencies{
		Repository:    repository,
		Uploader:      uploader,
		Publisher:     publisher,
		Authenticator: auth.NewAuthenticator(cfg.JWTSecret, cfg.AuthDisabled, logger),
		Logger:        logger,
		StoreName:     cfg.Store,
	})

	logger.Info("Product is starting",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.Store),
	)
	if err := server.Run(ctx, server.New(cfg.Port, router), logger); err != nil {
		logger.Error("HTTP server failed", zap.Error(err))
	}
}

func newProductRepository(ctx context.Context, cfg *config.ProductConfig, logger *zap.Logger) (product.Repository, func(), error) {
	if cfg.Store != config.StoreMongo {
		logger.Info("Product store: in-memory (set PRODUCT_STORE=mongo to persist products)")
		return repositories.NewProductRepositoryMemory(), func() {}, nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := repositories.ConnectMongo(connectCtx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	repo := repositories.NewProductRepositoryMongo(client, cfg.MongoDatabase)
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo indexes: %w", err)
	}
	logger.Info("Product store: MongoDB", zap.String("database", cfg.MongoDatabase))
	return repo, func() { _ = client.Disconnect(context.Background()) }, nil
}

func newEventPublisher(cfg *config.ProductConfig, logger *zap.Logger) (protocols.EventPublisher, func()) {
	writer, err := kafka.NewClient(cfg.KafkaBrokers).NewWriter(cfg.KafkaTopic)
	if err != nil {
		if !errors.Is(err, kafka.ErrDisabled) {
			logger.Warn("Kafka writer unavailable", zap.Error(err))
		}
		logger.Info("Kafka disabled, product events are only logged")
		return gateways.NewEventPublisherLog(logger), func() {}
	}
	logger.Info("Publishing product events", zap.String("topic", cfg.KafkaTopic))
	return gateways.NewEventPublisherKafka(writer), func() { _ = writer.Close() }
}
