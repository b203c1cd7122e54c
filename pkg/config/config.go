package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" env:"PITCHDECK_ENV" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" env:"PITCHDECK_PORT" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"500ms"`
		CORSOrigins     []string      `yaml:"cors_origins" env:"PITCHDECK_CORS_ORIGINS" envSeparator:"," default:"[\"*\"]"`
	} `yaml:"server"`
	Log struct {
		Level   string `yaml:"level" env:"PITCHDECK_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
		Format  string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output  string `yaml:"output" default:"stdout"`
		Collect bool   `yaml:"collect"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type" env:"PITCHDECK_BACKEND" default:"none" validate:"oneof=kafka clickhouse none"`
		BatchSize    int           `yaml:"batch_size" default:"100" validate:"gte=1"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
		BufferSize   int           `yaml:"buffer_size" default:"1000" validate:"gte=1"`
		MaxPerSecond int           `yaml:"max_per_second" default:"20" validate:"gte=0"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers" env:"PITCHDECK_KAFKA_BROKERS" envSeparator:","`
		Topic        string   `yaml:"topic" default:"deck.events"`
		LogTopic     string   `yaml:"log_topic" default:"deck.logs"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" env:"PITCHDECK_CLICKHOUSE_HOST" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"pitchdeck"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password" env:"PITCHDECK_CLICKHOUSE_PASSWORD"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"PITCHDECK_REDIS_ENABLED"`
		Host     string `yaml:"host" env:"PITCHDECK_REDIS_HOST" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password" env:"PITCHDECK_REDIS_PASSWORD"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"pitchdeck"`
		PoolSize int    `yaml:"pool_size" default:"10" validate:"gte=1"`
		MinIdle  int    `yaml:"min_idle_conns" default:"2" validate:"gte=0"`
	} `yaml:"redis"`
	Deck struct {
		Path        string        `yaml:"path" env:"PITCHDECK_DECK_PATH"`
		SessionTTL  time.Duration `yaml:"session_ttl" default:"12h"`
		MaxSessions int           `yaml:"max_sessions" default:"10000" validate:"gte=1"`
		SwipePx     float64       `yaml:"swipe_threshold_px" default:"50" validate:"gt=0"`
	} `yaml:"deck"`
	Worker struct {
		Workers   int `yaml:"workers" default:"2" validate:"gte=1,lte=64"`
		QueueSize int `yaml:"queue_size" default:"64" validate:"gte=1"`
	} `yaml:"worker"`
	Export struct {
		PrintDelay   time.Duration `yaml:"print_delay" default:"500ms"`
		Company      string        `yaml:"company" default:"Northwind Robotics"`
		RateCapacity float64       `yaml:"rate_capacity" default:"3"`
		RateRefill   float64       `yaml:"rate_refill_per_sec" default:"0.2"`
	} `yaml:"export"`
	Charts struct {
		CacheTTL      time.Duration `yaml:"cache_ttl" default:"10m"`
		MemoryEntries int           `yaml:"memory_entries" default:"256"`
		Width         int           `yaml:"width" default:"800"`
		Height        int           `yaml:"height" default:"400"`
	} `yaml:"charts"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(b)
}

// Parse decodes YAML, fills defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Backend.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when backend.type is kafka")
	}
	return nil
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
