package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	StaticDir         string        `mapstructure:"static_dir"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
}

// APIConfig points the client at the storefront REST API
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Store drivers
const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"
	StoreDriverRedis  = "redis"
)

type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type ChatConfig struct {
	RecentSessionWindow time.Duration `mapstructure:"recent_session_window"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the given path. A missing file is not an error.
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverSQLite, StoreDriverRedis:
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.static_dir", "./dist")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.middleware_timeout", "60s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// API
	v.SetDefault("api.base_url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", "30s")

	// Store
	v.SetDefault("store.driver", StoreDriverSQLite)
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("store.key_prefix", "storefront:")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Chat
	v.SetDefault("chat.recent_session_window", "30m")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.static_dir", "STATIC_DIR")

	// API
	v.BindEnv("api.base_url", "API_BASE_URL")

	// Store
	v.BindEnv("store.driver", "STORE_DRIVER")
	v.BindEnv("store.path", "STORE_PATH")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./storefront"
	}
	return dir + string(os.PathSeparator) + "storefront"
}
