package structs

import "time"

type Config struct {
	Server     *ServerConfig
	Cors       *CorsConfig
	Database   *DatabaseConfig
	Cache      *CacheConfig
	Email      *EmailConfig
	Shipping   *ShippingConfig
	RateLimit  *RateLimitConfig
	Encryption *EncryptionConfig
	Auth       *AuthConfig
}

type ServerConfig struct {
	AppName        string        // Halikarnas Sandals
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	FrontendURL    string
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration // in seconds
	MaxIdleTime  time.Duration // in seconds
	ReadTimeout  time.Duration // in seconds
	WriteTimeout time.Duration // in seconds
}

type CacheConfig struct {
	Address  string
	Username string
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int
	MaxIdleConns int
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration

	ProductListTTL  time.Duration
	ProductCountTTL time.Duration
}

type EmailConfig struct {
	ApiKey       string
	From         string
	SupportEmail string
}

// ShippingConfig drives server-side shipping cost computation. Orders with a
// subtotal at or above FreeAboveCents ship for free, everything else pays the
// flat rate.
type ShippingConfig struct {
	FlatRateCents  uint64
	FreeAboveCents uint64
}

type RateLimitConfig struct {
	Enabled bool

	// Track-order endpoint: per-IP budget for the whole window.
	TrackLimit  int
	TrackWindow time.Duration

	GeneralLimit  int
	GeneralWindow time.Duration
}

type EncryptionConfig struct {
	Key string // 32 bytes, AES-256
}

type AuthConfig struct {
	AccessTokenSecret string
}
