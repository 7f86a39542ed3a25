package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Shared struct {
	Environment  string
	LogLevel     string
	LokiURL      string
	OTLPEndpoint string
}

type CartConfig struct {
	Shared
	Port              string
	ProductServiceURL string
	Store             string
	RedisAddr         string
	RedisTTL          time.Duration
	LockTTL           time.Duration
	PostgresDSN       string
	ProductTimeout    time.Duration
}

type ImageKitConfig struct {
	PublicKey   string
	PrivateKey  string
	URLEndpoint string
	UploadURL   string
}

func (c ImageKitConfig) Enabled() bool {
	return c.PrivateKey != ""
}

type ProductConfig struct {
	Shared
	Port          string
	Store         string
	MongoURI      string
	MongoDatabase string
	KafkaBrokers  string
	KafkaTopic    string
	ImageKit      ImageKitConfig
	JWTSecret     string
	AuthDisabled  bool
}

// Loader reads configuration from an optional .env file and the environment.
// Environment variables win over the file.
type Loader struct {
	v *viper.Viper
}

func NewLoader(paths ...string) (*Loader, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	if len(paths) == 0 {
		paths = []string{".", "..", "../.."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CART_PORT", "3002")
	v.SetDefault("PRODUCT_SERVICE_URL", "http://localhost:3001")
	v.SetDefault("CART_STORE", StoreMemory)
	v.SetDefault("CART_REDIS_TTL", "168h")
	v.SetDefault("CART_LOCK_TTL", "10s")
	v.SetDefault("CART_PRODUCT_TIMEOUT", "5s")
	v.SetDefault("PRODUCT_PORT", "3001")
	v.SetDefault("PRODUCT_STORE", StoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "fusion")
	v.SetDefault("KAFKA_PRODUCT_TOPIC", "product.events")
	v.SetDefault("IMAGEKIT_UPLOAD_URL", "https://upload.imagekit.io/api/v1/files/upload")
	v.SetDefault("AUTH_DISABLED", false)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return &Loader{v: v}, nil
}

func (l *Loader) shared() Shared {
	return Shared{
		Environment:  l.get("ENVIRONMENT"),
		LogLevel:     l.get("LOG_LEVEL"),
		LokiURL:      l.get("LOKI_URL"),
		OTLPEndpoint: l.get("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func (l *Loader) Cart() (*CartConfig, error) {
	cfg := &CartConfig{
		Shared:            l.shared(),
		Port:              l.get("CART_PORT"),
		ProductServiceURL: strings.TrimRight(l.get("PRODUCT_SERVICE_URL"), "/"),
		Store:             strings.ToLower(l.get("CART_STORE")),
		RedisAddr:         l.get("REDIS_ADDR"),
		PostgresDSN:       l.get("POSTGRES_DSN"),
	}
	var err error
	if cfg.RedisTTL, err = l.duration("CART_REDIS_TTL"); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = l.duration("CART_LOCK_TTL"); err != nil {
		return nil, err
	}
	if cfg.ProductTimeout, err = l.duration("CART_PRODUCT_TIMEOUT"); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *CartConfig) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when CART_STORE=redis")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when CART_STORE=postgres")
		}
	default:
		return fmt.Errorf("CART_STORE must be one of memory, redis, postgres, got %q", c.Store)
	}
	if c.ProductServiceURL == "" {
		return errors.New("PRODUCT_SERVICE_URL is required")
	}
	if c.ProductTimeout <= 0 {
		return errors.New("CART_PRODUCT_TIMEOUT must be positive")
	}
	if c.LockTTL <= 0 {
		return errors.New("CART_LOCK_TTL must be positive")
	}
	return nil
}

func (l *Loader) Product() (*ProductConfig, error) {
	cfg := &ProductConfig{
		Shared:        l.shared(),
		Port:          l.get("PRODUCT_PORT"),
		Store:         strings.ToLower(l.get("PRODUCT_STORE")),
		MongoURI:      l.get("MONGO_URI"),
		MongoDatabase: l.get("MONGO_DATABASE"),
		KafkaBrokers:  l.get("KAFKA_BROKERS"),
		KafkaTopic:    l.get("KAFKA_PRODUCT_TOPIC"),
		ImageKit: ImageKitConfig{
			PublicKey:   l.get("IMAGEKIT_PUBLIC_KEY"),
			PrivateKey:  l.get("IMAGEKIT_PRIVATE_KEY"),
			URLEndpoint: l.get("IMAGEKIT_URL_ENDPOINT"),
			UploadURL:   l.get("IMAGEKIT_UPLOAD_URL"),
		},
		JWTSecret:    l.get("JWT_SECRET"),
		AuthDisabled: l.v.GetBool("AUTH_DISABLED"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ProductConfig) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("MONGO_URI and MONGO_DATABASE are required when PRODUCT_STORE=mongo")
		}
	default:
		return fmt.Errorf("PRODUCT_STORE must be one of mongo, memory, got %q", c.Store)
	}
	if !c.AuthDisabled && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required unless AUTH_DISABLED=true")
	}
	return nil
}

func (l *Loader) get(key string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return l.v.GetString(key)
}

func (l *Loader) duration(key string) (time.Duration, error) {
	raw := l.get(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}
