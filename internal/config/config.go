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
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Search   SearchConfig
	GraphQL  GraphQLConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	RateLimit       float64
	RateBurst       int
}

type StoreConfig struct {
	Driver   string
	SeedFile string
}

type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SearchConfig struct {
	Timeout            time.Duration
	DefaultSearchLimit int
	DefaultListLimit   int
	MaxLimit           int
	CacheTTL           time.Duration
	CacheCleanup       time.Duration
}

type GraphQLConfig struct {
	MaxDepth int
}

type LogConfig struct {
	Level  string
	Format string
	Output string
	File   LogFileConfig
}

type LogFileConfig struct {
	Filename   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

// Load reads configuration from the optional YAML file at path, then from
// the environment. Environment keys are the upper-cased config keys with
// dots replaced by underscores (server.port -> SERVER_PORT).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindEnv("server.port", "SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("binding port env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			IdleTimeout:     v.GetDuration("server.idleTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			CORSOrigins:     v.GetStringSlice("server.corsOrigins"),
			RateLimit:       v.GetFloat64("server.rateLimit"),
			RateBurst:       v.GetInt("server.rateBurst"),
		},
		Store: StoreConfig{
			Driver:   strings.ToLower(v.GetString("store.driver")),
			SeedFile: v.GetString("store.seedFile"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("mongo.uri"),
			Database:       v.GetString("mongo.database"),
			Collection:     v.GetString("mongo.collection"),
			ConnectTimeout: v.GetDuration("mongo.connectTimeout"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			MaxOpenConns:    v.GetInt("db.maxOpenConns"),
			MaxIdleConns:    v.GetInt("db.maxIdleConns"),
			ConnMaxLifetime: v.GetDuration("db.connMaxLifetime"),
		},
		Search: SearchConfig{
			Timeout:            v.GetDuration("search.timeout"),
			DefaultSearchLimit: v.GetInt("search.defaultSearchLimit"),
			DefaultListLimit:   v.GetInt("search.defaultListLimit"),
			MaxLimit:           v.GetInt("search.maxLimit"),
			CacheTTL:           v.GetDuration("search.cacheTTL"),
			CacheCleanup:       v.GetDuration("search.cacheCleanup"),
		},
		GraphQL: GraphQLConfig{
			MaxDepth: v.GetInt("graphql.maxDepth"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
			File: LogFileConfig{
				Filename:   v.GetString("log.file.filename"),
				MaxSize:    v.GetInt("log.file.maxSize"),
				MaxAge:     v.GetInt("log.file.maxAge"),
				MaxBackups: v.GetInt("log.file.maxBackups"),
				Compress:   v.GetBool("log.file.compress"),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "10s")
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("server.rateLimit", 20)
	v.SetDefault("server.rateBurst", 40)

	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.seedFile", "")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "storefront")
	v.SetDefault("mongo.collection", "products")
	v.SetDefault("mongo.connectTimeout", "10s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "storefront")
	v.SetDefault("db.password", "secret")
	v.SetDefault("db.name", "storefront")
	v.SetDefault("db.maxOpenConns", 25)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetime", "5m")

	v.SetDefault("search.timeout", "5s")
	v.SetDefault("search.defaultSearchLimit", 10)
	v.SetDefault("search.defaultListLimit", 20)
	v.SetDefault("search.maxLimit", 100)
	v.SetDefault("search.cacheTTL", "30s")
	v.SetDefault("search.cacheCleanup", "1m")

	v.SetDefault("graphql.maxDepth", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file.filename", "logs/storefront.log")
	v.SetDefault("log.file.maxSize", 100)
	v.SetDefault("log.file.maxAge", 7)
	v.SetDefault("log.file.maxBackups", 3)
	v.SetDefault("log.file.compress", true)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverMySQL, DriverMemory:
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive, got %d", c.Server.Port)
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("search timeout must be positive, got %s", c.Search.Timeout)
	}
	if c.Search.DefaultSearchLimit <= 0 || c.Search.DefaultListLimit <= 0 {
		return fmt.Errorf("default limits must be positive")
	}
	if c.Search.MaxLimit < c.Search.DefaultSearchLimit || c.Search.MaxLimit < c.Search.DefaultListLimit {
		return fmt.Errorf("search max limit %d is below a default limit", c.Search.MaxLimit)
	}
	switch c.Log.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("unsupported log output %q", c.Log.Output)
	}
	return nil
}
