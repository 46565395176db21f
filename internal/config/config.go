package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Bootstrap BootstrapConfig
	Places    PlacesConfig
	Worker    WorkerConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string
	Path            string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	BusyTimeout     time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SearchCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type BootstrapConfig struct {
	// CSVPath is loaded once when the store is empty; empty disables it
	CSVPath string
}

type PlacesConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	MaxResults     int
	DefaultRadius  float64
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
	BatchSize     int64
}

type MetricsConfig struct {
	Enabled bool
}

// Load читает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through v, so callers can bind flags first.
func LoadFrom(v *viper.Viper) (*Config, error) {
	// .env опционален, переменные окружения имеют приоритет
	_ = godotenv.Load(".env")

	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),

			ReadTimeout:  time.Duration(v.GetInt("API_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("API_WRITE_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			Path:            v.GetString("DB_PATH"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
			BusyTimeout:     time.Duration(v.GetInt("DB_BUSY_TIMEOUT")) * time.Millisecond,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SearchCacheTTL: time.Duration(v.GetInt("SEARCH_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Bootstrap: BootstrapConfig{
			CSVPath: v.GetString("BOOTSTRAP_CSV"),
		},
		Places: PlacesConfig{
			APIKey:         v.GetString("PLACES_API_KEY"),
			BaseURL:        strings.TrimRight(v.GetString("PLACES_BASE_URL"), "/"),
			RequestTimeout: time.Duration(v.GetInt("PLACES_REQUEST_TIMEOUT")) * time.Second,
			MaxResults:     v.GetInt("PLACES_MAX_RESULTS"),
			DefaultRadius:  v.GetFloat64("PLACES_DEFAULT_RADIUS"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    v.GetInt("WORKER_MAX_RETRIES"),
			BatchSize:     v.GetInt64("WORKER_BATCH_SIZE"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_READ_TIMEOUT", 10)
	v.SetDefault("API_WRITE_TIMEOUT", 30)

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "data/resources.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "resources")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("DB_BUSY_TIMEOUT", 5000)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SEARCH_CACHE_TTL", 300)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BOOTSTRAP_CSV", "data/default_resources.csv")

	v.SetDefault("PLACES_BASE_URL", "https://places.googleapis.com")
	v.SetDefault("PLACES_REQUEST_TIMEOUT", 10)
	v.SetDefault("PLACES_MAX_RESULTS", 20)
	v.SetDefault("PLACES_DEFAULT_RADIUS", 5000)

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_CONSUMER_GROUP", "resource-ingest-workers")
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("WORKER_BATCH_SIZE", 10)

	v.SetDefault("METRICS_ENABLED", true)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid API_PORT %d", c.Server.Port)
	}
	if c.Places.MaxResults <= 0 || c.Places.MaxResults > 20 {
		// provider caps maxResultCount at 20
		c.Places.MaxResults = 20
	}
	if c.Worker.MaxRetries < 0 {
		c.Worker.MaxRetries = 0
	}
	if c.Worker.BatchSize <= 0 {
		c.Worker.BatchSize = 10
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseDSN returns the DSN for the configured driver. For sqlite this
// is only the file path; pragmas are appended by the store.
func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// PlacesEnabled reports whether provider sync can run.
func (c *Config) PlacesEnabled() bool {
	return strings.TrimSpace(c.Places.APIKey) != ""
}
