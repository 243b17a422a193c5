package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, intervals, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Gateway   GatewayConfig
	Notifier  NotifierConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

// GatewayConfig points at the Mercado Pago style payment gateway. Only the
// read side (payment lookup) and webhook verification are used here.
type GatewayConfig struct {
	BaseURL       string        `envconfig:"GATEWAY_BASE_URL" required:"true"`
	AccessToken   string        `envconfig:"GATEWAY_ACCESS_TOKEN" required:"true"`
	WebhookSecret string        `envconfig:"GATEWAY_WEBHOOK_SECRET" required:"true"`
	Timeout       time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`
}

type NotifierConfig struct {
	BaseURL string        `envconfig:"NOTIFIER_BASE_URL" default:""`
	Timeout time.Duration `envconfig:"NOTIFIER_TIMEOUT" default:"5s"`
}

type SchedulerConfig struct {
	Enabled           bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	ReconcileInterval time.Duration `envconfig:"SCHEDULER_RECONCILE_INTERVAL" default:"1m"`
	SweepInterval     time.Duration `envconfig:"SCHEDULER_SWEEP_INTERVAL" default:"1h"`
	CancelWindow      time.Duration `envconfig:"SCHEDULER_CANCEL_WINDOW" default:"1h"`
	LeaseTTL          time.Duration `envconfig:"SCHEDULER_LEASE_TTL" default:"5m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:  "error",
			Format: "json",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Gateway: GatewayConfig{
			BaseURL:       "http://localhost:9999",
			AccessToken:   "test-token",
			WebhookSecret: "test-webhook-secret",
			Timeout:       time.Second,
		},
		Scheduler: SchedulerConfig{
			Enabled:           false,
			ReconcileInterval: time.Minute,
			SweepInterval:     time.Hour,
			CancelWindow:      time.Hour,
			LeaseTTL:          5 * time.Minute,
		},
	}
}
