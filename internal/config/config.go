package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"uav-maintenance-service/internal/pkg/jwt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	// Server
	HTTPAddr        string
	GinMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	Store   StoreConfig
	Redis   RedisConfig
	JWT     jwt.Config
	Blob    BlobConfig
	Log     LogConfig
	Metrics MetricsConfig
	Fleet   FleetConfig

	// Optional first operator account created at startup
	BootstrapEmail    string
	BootstrapPassword string
}

type StoreConfig struct {
	Driver        string
	PostgresDSN   string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
	MongoUser     string
	MongoPass     string
}

type RedisConfig struct {
	Addr        string
	Pass        string
	DB          int
	PoolSize    int
	ClusterMode bool
}

// Addresses splits a comma-separated address list
func (r RedisConfig) Addresses() []string {
	return splitList(r.Addr)
}

type BlobConfig struct {
	Driver string
	FSRoot string
	S3     S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
}

type LogConfig struct {
	Level  string
	Format string
}

type MetricsConfig struct {
	Namespace string
}

type FleetConfig struct {
	ReloadOnStart bool
	WindowDays    int
	TopLimit      int
	MaxWindowDays int
	MaxLimit      int
}

// Load reads defaults, an optional config.yaml and the environment.
func Load() (AppConfig, error) {
	v := viper.New()

	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("http.cors_origins", "*")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("store.sqlite_path", "data/uav-maintenance.db")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_database", "uav_maintenance")
	v.SetDefault("store.mongo_user", "")
	v.SetDefault("store.mongo_pass", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pass", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.cluster_mode", false)

	v.SetDefault("jwt.private_key_path", "/app/secrets/jwt_private.pem")
	v.SetDefault("jwt.public_key_path", "/app/secrets/jwt_public.pem")
	v.SetDefault("jwt.issuer", "uav-maintenance")
	v.SetDefault("jwt.audience", "uav-maintenance-users")
	v.SetDefault("jwt.ttl", "12h")
	v.SetDefault("jwt.kid", "uav-maintenance-key")

	v.SetDefault("blob.driver", "none")
	v.SetDefault("blob.fs_root", "data/blobs")
	v.SetDefault("blob.s3.bucket", "")
	v.SetDefault("blob.s3.region", "us-east-1")
	v.SetDefault("blob.s3.endpoint", "")
	v.SetDefault("blob.s3.use_path_style", false)
	v.SetDefault("blob.s3.access_key_id", "")
	v.SetDefault("blob.s3.secret_access_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.namespace", "uav_maintenance")

	v.SetDefault("fleet.reload_on_start", true)
	v.SetDefault("fleet.window_days", 30)
	v.SetDefault("fleet.top_limit", 5)
	v.SetDefault("fleet.max_window_days", 366)
	v.SetDefault("fleet.max_limit", 100)

	v.SetDefault("bootstrap.email", "")
	v.SetDefault("bootstrap.password", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/uav-maintenance")
	v.AddConfigPath(".")

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return AppConfig{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := AppConfig{
		HTTPAddr:        v.GetString("http.addr"),
		GinMode:         v.GetString("http.gin_mode"),
		CORSOrigins:     splitList(v.GetString("http.cors_origins")),
		ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),

		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("store.driver")),
			PostgresDSN:   v.GetString("store.postgres_dsn"),
			SQLitePath:    v.GetString("store.sqlite_path"),
			MongoURI:      v.GetString("store.mongo_uri"),
			MongoDatabase: v.GetString("store.mongo_database"),
			MongoUser:     v.GetString("store.mongo_user"),
			MongoPass:     v.GetString("store.mongo_pass"),
		},

		Redis: RedisConfig{
			Addr:        v.GetString("redis.addr"),
			Pass:        v.GetString("redis.pass"),
			DB:          v.GetInt("redis.db"),
			PoolSize:    v.GetInt("redis.pool_size"),
			ClusterMode: v.GetBool("redis.cluster_mode"),
		},

		JWT: jwt.Config{
			PrivPath: v.GetString("jwt.private_key_path"),
			PubPath:  v.GetString("jwt.public_key_path"),
			Issuer:   v.GetString("jwt.issuer"),
			Audience: v.GetString("jwt.audience"),
			TTL:      v.GetDuration("jwt.ttl"),
			KID:      v.GetString("jwt.kid"),
		},

		Blob: BlobConfig{
			Driver: strings.ToLower(v.GetString("blob.driver")),
			FSRoot: v.GetString("blob.fs_root"),
			S3: S3Config{
				Bucket:          v.GetString("blob.s3.bucket"),
				Region:          v.GetString("blob.s3.region"),
				Endpoint:        v.GetString("blob.s3.endpoint"),
				UsePathStyle:    v.GetBool("blob.s3.use_path_style"),
				AccessKeyID:     v.GetString("blob.s3.access_key_id"),
				SecretAccessKey: v.GetString("blob.s3.secret_access_key"),
			},
		},

		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},

		Metrics: MetricsConfig{Namespace: v.GetString("metrics.namespace")},

		Fleet: FleetConfig{
			ReloadOnStart: v.GetBool("fleet.reload_on_start"),
			WindowDays:    v.GetInt("fleet.window_days"),
			TopLimit:      v.GetInt("fleet.top_limit"),
			MaxWindowDays: v.GetInt("fleet.max_window_days"),
			MaxLimit:      v.GetInt("fleet.max_limit"),
		},

		BootstrapEmail:    v.GetString("bootstrap.email"),
		BootstrapPassword: v.GetString("bootstrap.password"),
	}

	if err := validate(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *AppConfig) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("http.addr is required")
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode: %s (must be debug, release, or test)", cfg.GinMode)
	}

	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	case "sqlite":
		if cfg.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	case "mongo":
		if cfg.Store.MongoURI == "" || cfg.Store.MongoDatabase == "" {
			return fmt.Errorf("store.mongo_uri and store.mongo_database are required for the mongo driver")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid store driver: %s (must be postgres, sqlite, mongo, or memory)", cfg.Store.Driver)
	}

	switch cfg.Blob.Driver {
	case "none", "memory":
	case "fs":
		if cfg.Blob.FSRoot == "" {
			return fmt.Errorf("blob.fs_root is required for the fs driver")
		}
	case "s3":
		if cfg.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("invalid blob driver: %s (must be none, memory, fs, or s3)", cfg.Blob.Driver)
	}

	if len(cfg.Redis.Addresses()) == 0 {
		return fmt.Errorf("redis.addr is required")
	}

	if cfg.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be greater than 0")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	if cfg.Fleet.WindowDays <= 0 {
		return fmt.Errorf("fleet.window_days must be greater than 0")
	}
	if cfg.Fleet.TopLimit <= 0 {
		return fmt.Errorf("fleet.top_limit must be greater than 0")
	}
	if cfg.Fleet.MaxWindowDays < cfg.Fleet.WindowDays {
		return fmt.Errorf("fleet.max_window_days must be at least fleet.window_days (%d)", cfg.Fleet.WindowDays)
	}
	if cfg.Fleet.MaxLimit < cfg.Fleet.TopLimit {
		return fmt.Errorf("fleet.max_limit must be at least fleet.top_limit (%d)", cfg.Fleet.TopLimit)
	}

	return nil
}

// --- Helper functions ---

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
