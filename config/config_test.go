package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func emptyDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

func TestCartDefaults(t *testing.T) {
	l, err := NewLoader(emptyDir(t))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	cfg, err := l.Cart()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Port != "3002" || cfg.Store != StoreMemory || cfg.ProductServiceURL != "http://localhost:3001" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RedisTTL != 168*time.Hour || cfg.LockTTL != 10*time.Second || cfg.ProductTimeout != 5*time.Second {
		t.Fatalf("unexpected durations %+v", cfg)
	}
}

func TestCartRedisRequiresAddr(t *testing.T) {
	t.Setenv("CART_STORE", "redis")
	t.Setenv("REDIS_ADDR", "")
	l, err := NewLoader(emptyDir(t))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := l.Cart(); err == nil {
		t.Fatalf("expected error without REDIS_ADDR")
	}

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := l.Cart()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Store != StoreRedis || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestCartRejectsBadDuration(t *testing.T) {
	t.Setenv("CART_PRODUCT_TIMEOUT", "soon")
	l, err := NewLoader(emptyDir(t))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := l.Cart(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestCartRejectsUnknownStore(t *testing.T) {
	t.Setenv("CART_STORE", "etcd")
	l, _ := NewLoader(emptyDir(t))
	if _, err := l.Cart(); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestProductReadsEnvFile(t *testing.T) {
	dir := emptyDir(t)
	content := "PRODUCT_STORE=memory\nAUTH_DISABLED=true\nKAFKA_BROKERS=kafka:9092\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	l, err := NewLoader(dir)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	cfg, err := l.Product()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Store != StoreMemory || !cfg.AuthDisabled || cfg.KafkaBrokers != "kafka:9092" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Port != "3001" || cfg.KafkaTopic != "product.events" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestProductRequiresJWTSecret(t *testing.T) {
	t.Setenv("PRODUCT_STORE", "memory")
	t.Setenv("AUTH_DISABLED", "")
	t.Setenv("JWT_SECRET", "")
	l, _ := NewLoader(emptyDir(t))
	if _, err := l.Product(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}
