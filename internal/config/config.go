package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	DenyEmpty     = "empty"
	DenyForbidden = "forbidden"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"ENV"`
	StoreDriver        string        `mapstructure:"STORE_DRIVER"`
	MongoURI           string        `mapstructure:"MONGO_URI"`
	MongoDatabase      string        `mapstructure:"MONGO_DATABASE"`
	DBUser             string        `mapstructure:"DB_USER"`
	DBPassword         string        `mapstructure:"DB_PASSWORD"`
	DBHost             string        `mapstructure:"DB_HOST"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32         `mapstructure:"DB_MIN_CONNS"`
	AccessTokenSecret  string        `mapstructure:"ACCESS_TOKEN"`
	TokenTTL           time.Duration `mapstructure:"TOKEN_TTL"`
	StripeSecretKey    string        `mapstructure:"STRIPE_SECRET_KEY"`
	PaymentCurrency    string        `mapstructure:"PAYMENT_CURRENCY"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	AdminDenyPolicy    string        `mapstructure:"ADMIN_DENY_POLICY"`
	BookingUniqueIndex bool          `mapstructure:"BOOKING_UNIQUE_INDEX"`
	BodyLimit          string        `mapstructure:"BODY_LIMIT"`
}

var envKeys = []string{
	"PORT", "ENV", "STORE_DRIVER", "MONGO_URI", "MONGO_DATABASE",
	"DB_USER", "DB_PASSWORD", "DB_HOST", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"ACCESS_TOKEN", "TOKEN_TTL", "STRIPE_SECRET_KEY", "PAYMENT_CURRENCY",
	"CORS_ORIGINS", "ADMIN_DENY_POLICY", "BOOKING_UNIQUE_INDEX", "BODY_LIMIT",
}

func Load() (*Config, error) {
	// A missing .env is fine; deployments set real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_DATABASE", "doctorsPortal")
	v.SetDefault("DB_HOST", "cluster0.mongodb.net")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("ADMIN_DENY_POLICY", DenyEmpty)
	v.SetDefault("BOOKING_UNIQUE_INDEX", false)
	v.SetDefault("BODY_LIMIT", "1M")

	for _, key := range envKeys {
		v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) <= 1 {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.MongoURI == "" && cfg.DBUser != "" {
		cfg.MongoURI = fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
			url.QueryEscape(cfg.DBUser), url.QueryEscape(cfg.DBPassword), cfg.DBHost)
	}

	if cfg.AccessTokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: running in development mode (ENV=development), logs are human-readable")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the selected store has a connection string and that
// enumerated settings hold known values.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI (or DB_USER/DB_PASSWORD) is required when STORE_DRIVER is %q", DriverMongo)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverPostgres, c.StoreDriver)
	}

	if c.AdminDenyPolicy != DenyEmpty && c.AdminDenyPolicy != DenyForbidden {
		return fmt.Errorf("ADMIN_DENY_POLICY must be %q or %q, got %q", DenyEmpty, DenyForbidden, c.AdminDenyPolicy)
	}

	if c.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL must not be negative, got %s", c.TokenTTL)
	}

	if c.PaymentCurrency == "" {
		return fmt.Errorf("PAYMENT_CURRENCY must not be empty")
	}

	return nil
}
