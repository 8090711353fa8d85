package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (STOREFRONT_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	RedisURL    string `default:"redis://localhost:6379/0" usage:"Redis connection URL for session state" flag:"redis-url"`
	Cart        CartConfig
	Session     SessionConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// CartConfig controls cart behaviour and the pricing rules used for derived
// totals. Monetary values are decimal strings to avoid float drift.
type CartConfig struct {
	MaxLineQuantity       int    `default:"99"    usage:"Per-line quantity cap" flag:"max-line-quantity"`
	FreeShippingThreshold string `default:"50.00" usage:"Subtotal above which shipping is free" flag:"free-shipping-threshold"`
	FlatShippingFee       string `default:"5.99"  usage:"Flat shipping fee below the threshold" flag:"flat-shipping-fee"`
	TaxRate               string `default:"0.08"  usage:"Tax rate applied to the subtotal" flag:"tax-rate"`
}

// SessionConfig controls session state persistence and in-memory eviction.
type SessionConfig struct {
	TTL           time.Duration `default:"720h" usage:"Redis TTL for persisted cart/wishlist state" flag:"session-ttl"`
	IdleEviction  time.Duration `default:"30m"  usage:"Evict in-memory stores idle longer than this" flag:"session-idle-eviction"`
	SweepInterval time.Duration `default:"5m"   usage:"How often idle sessions are swept" flag:"session-sweep-interval"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// CartDomainConfig converts the string pricing knobs into the domain config.
func (c *Config) CartDomainConfig() (cart.Config, error) {
	threshold, err := decimal.NewFromString(c.Cart.FreeShippingThreshold)
	if err != nil {
		return cart.Config{}, errors.Wrap(err, "parse free shipping threshold")
	}
	fee, err := decimal.NewFromString(c.Cart.FlatShippingFee)
	if err != nil {
		return cart.Config{}, errors.Wrap(err, "parse flat shipping fee")
	}
	rate, err := decimal.NewFromString(c.Cart.TaxRate)
	if err != nil {
		return cart.Config{}, errors.Wrap(err, "parse tax rate")
	}

	return cart.Config{
		MaxLineQuantity: c.Cart.MaxLineQuantity,
		Pricing: cart.Pricing{
			FreeShippingThreshold: threshold,
			FlatShippingFee:       fee,
			TaxRate:               rate,
		},
	}, nil
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set STOREFRONT_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's STOREFRONT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if c.RedisURL == "redis://localhost:6379/0" {
		if v := os.Getenv("REDIS_URL"); v != "" {
			c.RedisURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
