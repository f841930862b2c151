package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Provider ProviderConfig `yaml:"provider"`
	LiveKit  LiveKitConfig  `yaml:"livekit"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Swagger  SwaggerConfig  `yaml:"swagger"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	BasePath        string        `yaml:"base_path"`
	WSPath          string        `yaml:"ws_path"`
	Env             string        `yaml:"env"`
	LogLevel        string        `yaml:"log_level"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig is optional; an empty Host disables Redis.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ProviderConfig selects and configures the external room provider.
// Driver is "rest" (100ms-style REST API) or "livekit".
type ProviderConfig struct {
	Driver    string        `yaml:"driver"`
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	AccessKey string        `yaml:"access_key"`
	AppSecret string        `yaml:"app_secret"`
	Timeout   time.Duration `yaml:"timeout"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LiveKitConfig struct {
	Host      string `yaml:"host"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	WSUrl     string `yaml:"ws_url"`
}

type MetricsConfig struct {
	CollectSchedule string `yaml:"collect_schedule"`
}

type SwaggerConfig struct {
	Enabled bool `yaml:"enabled"`
}

const (
	DriverREST    = "rest"
	DriverLiveKit = "livekit"
)

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            3000,
			BasePath:        "",
			WSPath:          "/ws",
			Env:             "dev",
			LogLevel:        "info",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Port: 6379,
			DB:   0,
		},
		Provider: ProviderConfig{
			Driver:   DriverREST,
			BaseURL:  "https://api.100ms.live/v2",
			Timeout:  10 * time.Second,
			TokenTTL: 24 * time.Hour,
		},
		LiveKit: LiveKitConfig{
			Host:  "http://localhost:7880",
			WSUrl: "ws://localhost:7880",
		},
		Metrics: MetricsConfig{
			CollectSchedule: "@every 1m",
		},
		Swagger: SwaggerConfig{
			Enabled: true,
		},
	}

	// Load from yaml file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if wsPath := os.Getenv("WS_PATH"); wsPath != "" {
		cfg.Server.WSPath = wsPath
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		cfg.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if p, err := strconv.Atoi(redisPort); err == nil {
			cfg.Redis.Port = p
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}

	// Provider configuration
	if driver := os.Getenv("PROVIDER_DRIVER"); driver != "" {
		cfg.Provider.Driver = driver
	}
	if baseURL := os.Getenv("PROVIDER_BASE_URL"); baseURL != "" {
		cfg.Provider.BaseURL = baseURL
	}
	// 100MS_API_KEY is the variable name used by existing deployments
	if apiKey := os.Getenv("100MS_API_KEY"); apiKey != "" {
		cfg.Provider.APIKey = apiKey
	}
	if apiKey := os.Getenv("PROVIDER_API_KEY"); apiKey != "" {
		cfg.Provider.APIKey = apiKey
	}
	if accessKey := os.Getenv("PROVIDER_ACCESS_KEY"); accessKey != "" {
		cfg.Provider.AccessKey = accessKey
	}
	if appSecret := os.Getenv("PROVIDER_APP_SECRET"); appSecret != "" {
		cfg.Provider.AppSecret = appSecret
	}
	if timeout := os.Getenv("PROVIDER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Provider.Timeout = d
		}
	}

	// LiveKit configuration
	if lkHost := os.Getenv("LIVEKIT_HOST"); lkHost != "" {
		cfg.LiveKit.Host = lkHost
	}
	if lkAPIKey := os.Getenv("LIVEKIT_API_KEY"); lkAPIKey != "" {
		cfg.LiveKit.APIKey = lkAPIKey
	}
	if lkAPISecret := os.Getenv("LIVEKIT_API_SECRET"); lkAPISecret != "" {
		cfg.LiveKit.APISecret = lkAPISecret
	}
	if lkWSUrl := os.Getenv("LIVEKIT_WS_URL"); lkWSUrl != "" {
		cfg.LiveKit.WSUrl = lkWSUrl
	}

	if schedule := os.Getenv("METRICS_COLLECT_SCHEDULE"); schedule != "" {
		cfg.Metrics.CollectSchedule = schedule
	}
	if swagger := os.Getenv("SWAGGER_ENABLED"); swagger != "" {
		if b, err := strconv.ParseBool(swagger); err == nil {
			cfg.Swagger.Enabled = b
		}
	}

	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	switch c.Provider.Driver {
	case DriverREST:
		if c.Provider.APIKey == "" && (c.Provider.AccessKey == "" || c.Provider.AppSecret == "") {
			return errors.New("provider credential is required (PROVIDER_API_KEY or PROVIDER_ACCESS_KEY + PROVIDER_APP_SECRET)")
		}
	case DriverLiveKit:
		if c.LiveKit.APIKey == "" || c.LiveKit.APISecret == "" {
			return errors.New("livekit api key and secret are required")
		}
	default:
		return errors.New("unknown provider driver: " + c.Provider.Driver)
	}
	return nil
}
