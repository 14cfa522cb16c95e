package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"billmaker/internal/gst"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Minio       MinioConfig    `mapstructure:"minio"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Tax         TaxConfig      `mapstructure:"tax"`
	Seller      SellerConfig   `mapstructure:"seller"`
	Jobs        JobsConfig     `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	BodyLimit       string        `mapstructure:"body_limit"`
}

type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	MaxConns    int32  `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type MinioConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	AccessKey    string        `mapstructure:"access_key"`
	SecretKey    string        `mapstructure:"secret_key"`
	UseSSL       bool          `mapstructure:"use_ssl"`
	Bucket       string        `mapstructure:"bucket"`
	PresignedTTL time.Duration `mapstructure:"presigned_ttl"`
}

// AuthConfig selects token verification. A JWKS URL takes precedence over the shared secret.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	JWKSURL   string `mapstructure:"jwks_url"`
}

type TaxConfig struct {
	RatePercent float64 `mapstructure:"rate_percent"`
	SplitPolicy string  `mapstructure:"split_policy"`
}

// SellerConfig is the issuer block printed on every invoice.
type SellerConfig struct {
	Name             string `mapstructure:"name"`
	Address          string `mapstructure:"address"`
	GSTIN            string `mapstructure:"gstin"`
	Phone            string `mapstructure:"phone"`
	Email            string `mapstructure:"email"`
	BankName         string `mapstructure:"bank_name"`
	BankBranch       string `mapstructure:"bank_branch"`
	BankAccount      string `mapstructure:"bank_account"`
	BankIFSC         string `mapstructure:"bank_ifsc"`
	Jurisdiction     string `mapstructure:"jurisdiction"`
	GoodsDescription string `mapstructure:"goods_description"`
	HSNCode          string `mapstructure:"hsn_code"`
	Unit             string `mapstructure:"unit"`
}

type JobsConfig struct {
	PDFRetention       time.Duration `mapstructure:"pdf_retention"`
	PDFCleanupInterval time.Duration `mapstructure:"pdf_cleanup_interval"`
}

// env names for every key; they are kept flat for container deployments.
var envBindings = map[string]string{
	"environment":               "APP_ENV",
	"log_level":                 "LOG_LEVEL",
	"server.port":               "PORT",
	"server.shutdown_timeout":   "SHUTDOWN_TIMEOUT",
	"server.body_limit":         "BODY_LIMIT",
	"database.url":              "DATABASE_URL",
	"database.max_conns":        "DATABASE_MAX_CONNS",
	"database.auto_migrate":     "DATABASE_AUTO_MIGRATE",
	"redis.addr":                "REDIS_ADDR",
	"redis.password":            "REDIS_PASSWORD",
	"redis.db":                  "REDIS_DB",
	"redis.cache_ttl":           "REDIS_CACHE_TTL",
	"minio.endpoint":            "MINIO_ENDPOINT",
	"minio.access_key":          "MINIO_ACCESS_KEY",
	"minio.secret_key":          "MINIO_SECRET_KEY",
	"minio.use_ssl":             "MINIO_USE_SSL",
	"minio.bucket":              "MINIO_BUCKET",
	"minio.presigned_ttl":       "MINIO_PRESIGNED_TTL",
	"auth.jwt_secret":           "JWT_SECRET",
	"auth.jwks_url":             "JWKS_URL",
	"tax.rate_percent":          "GST_RATE_PERCENT",
	"tax.split_policy":          "GST_SPLIT_POLICY",
	"seller.name":               "SELLER_NAME",
	"seller.address":            "SELLER_ADDRESS",
	"seller.gstin":              "SELLER_GSTIN",
	"seller.phone":              "SELLER_PHONE",
	"seller.email":              "SELLER_EMAIL",
	"seller.bank_name":          "SELLER_BANK_NAME",
	"seller.bank_branch":        "SELLER_BANK_BRANCH",
	"seller.bank_account":       "SELLER_BANK_ACCOUNT",
	"seller.bank_ifsc":          "SELLER_BANK_IFSC",
	"seller.jurisdiction":       "SELLER_JURISDICTION",
	"seller.goods_description":  "GOODS_DESCRIPTION",
	"seller.hsn_code":           "HSN_CODE",
	"seller.unit":               "GOODS_UNIT",
	"jobs.pdf_retention":        "PDF_RETENTION",
	"jobs.pdf_cleanup_interval": "PDF_CLEANUP_INTERVAL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.body_limit", "1M")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 10*time.Minute)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "minioadmin")
	v.SetDefault("minio.secret_key", "minioadmin")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "invoices")
	v.SetDefault("minio.presigned_ttl", 15*time.Minute)
	v.SetDefault("tax.rate_percent", 18.0)
	v.SetDefault("tax.split_policy", string(gst.DisplayEqual))
	v.SetDefault("seller.name", "SRI BALAJI ENTERPRISES")
	v.SetDefault("seller.jurisdiction", "BANGALORE")
	v.SetDefault("seller.goods_description", "Cement")
	v.SetDefault("seller.hsn_code", "2523")
	v.SetDefault("seller.unit", "Bag")
	v.SetDefault("jobs.pdf_retention", 72*time.Hour)
	v.SetDefault("jobs.pdf_cleanup_interval", time.Hour)
}

// Load reads configuration from the environment, optionally overlaid on a
// YAML file. An empty configFile means environment and defaults only.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.URL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Tax.RatePercent < 0 || c.Tax.RatePercent >= 100 {
		errs = append(errs, fmt.Errorf("GST_RATE_PERCENT must be in [0, 100), got %v", c.Tax.RatePercent))
	}
	if _, err := gst.ParseSplitPolicy(c.Tax.SplitPolicy); err != nil {
		errs = append(errs, fmt.Errorf("GST_SPLIT_POLICY: %w", err))
	}
	if c.Jobs.PDFRetention <= 0 {
		errs = append(errs, errors.New("PDF_RETENTION must be positive"))
	}
	if c.Jobs.PDFCleanupInterval <= 0 {
		errs = append(errs, errors.New("PDF_CLEANUP_INTERVAL must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// SplitPolicy returns the validated split policy.
func (c *Config) SplitPolicy() gst.SplitPolicy {
	return gst.SplitPolicy(c.Tax.SplitPolicy)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds a JSON logger in production and a console logger otherwise.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
