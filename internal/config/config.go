package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultEnvFile = "env/.env"

type API struct {
	URL             string        `env:"API_URL"`
	Key             string        `env:"API_KEY"`
	TargetProductID int64         `env:"TARGET_PRODUCT_ID" envDefault:"1608"`
	Timeout         time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	// InsecureSkipVerify disables TLS certificate checks on the API call.
	InsecureSkipVerify bool `env:"API_INSECURE_SKIP_VERIFY" envDefault:"false"`
	// ResponsesHTML renders response lines as markup instead of escaping them.
	ResponsesHTML bool `env:"API_RESPONSES_HTML" envDefault:"false"`
}

type Notify struct {
	Recipients []string `env:"NOTIFY_RECIPIENTS" envSeparator:","`
	From       string   `env:"NOTIFY_FROM" envDefault:"store@localhost"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	// StartTLS is opportunistic unless RequireTLS is set.
	RequireTLS bool `env:"SMTP_REQUIRE_TLS" envDefault:"false"`
}

type Cache struct {
	Backend  string        `env:"CACHE_BACKEND" envDefault:"memory"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"120s"`
	Cap      int           `env:"CACHE_CAP" envDefault:"10000"`
	OrderCap int           `env:"ORDER_CACHE_CAP" envDefault:"1000"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Postgres struct {
	DSN string `env:"PG_DSN"`
}

type Kafka struct {
	Brokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic       string   `env:"KAFKA_TOPIC" envDefault:"orders.processing"`
	Group       string   `env:"KAFKA_GROUP" envDefault:"order-enrichment"`
	Workers     int      `env:"KAFKA_WORKERS" envDefault:"4"`
	Partitions  int      `env:"KAFKA_PARTITIONS" envDefault:"1"`
	Replication int      `env:"KAFKA_REPLICATION" envDefault:"1"`
}

type Breaker struct {
	Threshold   uint32        `env:"BREAKER_THRESHOLD" envDefault:"5"`
	OpenTimeout time.Duration `env:"BREAKER_OPENTIMEOUT" envDefault:"10s"`
	MaxHalfOpen uint32        `env:"BREAKER_MAXHALFOPEN" envDefault:"3"`
}

type Retry struct {
	Attempts     int           `env:"RETRY_ATTEMPTS" envDefault:"5"`
	Base         time.Duration `env:"RETRY_BASE" envDefault:"100ms"`
	Max          time.Duration `env:"RETRY_MAX" envDefault:"5s"`
	JitterFactor float64       `env:"RETRY_JITTERFACTOR" envDefault:"0.3"`
}

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8081"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	API     API
	Notify  Notify
	SMTP    SMTP
	Cache   Cache
	Redis   Redis
	Pg      Postgres
	Kafka   Kafka
	Breaker Breaker
	Retry   Retry
}

// Load fatals on error; main has nothing sensible to do without a config.
func Load() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = defaultEnvFile
	}
	cfg, err := load(envFile)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load(envFile string) (Config, error) {
	// A missing .env is fine: the process environment may carry everything.
	_ = godotenv.Load(envFile)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.API.URL = strings.TrimSpace(c.API.URL)
	c.API.Key = strings.TrimSpace(c.API.Key)
	c.Notify.Recipients = trimAll(c.Notify.Recipients)
	c.Kafka.Brokers = trimAll(c.Kafka.Brokers)
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))

	if c.Cache.Cap <= 0 {
		log.Printf("CACHE_CAP is %d, adjusting to 1", c.Cache.Cap)
		c.Cache.Cap = 1
	}
	if c.Cache.OrderCap <= 0 {
		log.Printf("ORDER_CACHE_CAP is %d, adjusting to 1", c.Cache.OrderCap)
		c.Cache.OrderCap = 1
	}
	if c.Retry.Attempts < 0 {
		log.Printf("RETRY_ATTEMPTS is %d, adjusting to 0", c.Retry.Attempts)
		c.Retry.Attempts = 0
	}
	if c.Retry.Base <= 0 {
		log.Printf("RETRY_BASE is %v, adjusting to 100ms", c.Retry.Base)
		c.Retry.Base = 100 * time.Millisecond
	}
	if c.Retry.Max < c.Retry.Base {
		log.Printf("RETRY_MAX (%v) < RETRY_BASE (%v), adjusting max to base", c.Retry.Max, c.Retry.Base)
		c.Retry.Max = c.Retry.Base
	}
	if c.Kafka.Workers < 1 {
		c.Kafka.Workers = 1
	}
}

func (c Config) validate() error {
	var missing []string
	req := []struct{ key, val string }{
		{"API_URL", c.API.URL},
		{"API_KEY", c.API.Key},
		{"NOTIFY_RECIPIENTS", strings.Join(c.Notify.Recipients, ",")},
	}
	if c.Cache.Backend == "redis" {
		req = append(req, struct{ key, val string }{"REDIS_ADDR", c.Redis.Addr})
	}
	for _, r := range req {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &missingEnvError{Keys: missing}
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", c.Cache.TTL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %v", c.API.Timeout)
	}
	return nil
}

// KafkaEnabled reports whether the event consumer should run.
func (c Config) KafkaEnabled() bool { return len(c.Kafka.Brokers) > 0 }

// SMTPEnabled reports whether notifications go out over SMTP rather than to the log.
func (c Config) SMTPEnabled() bool { return c.SMTP.Host != "" }

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
