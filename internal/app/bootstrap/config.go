package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use "15s" / "24h" notation.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full process configuration. Values resolve in three layers:
// compiled defaults, then the YAML file, then HELPBRIDGE_* environment
// variables.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Documents DocumentsConfig `yaml:"documents"`
	Security  SecurityConfig  `yaml:"security"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServiceConfig struct {
	Name            string   `yaml:"name"`
	SupportEmail    string   `yaml:"support_email"`
	Currency        string   `yaml:"currency"`
	PendingOrderTTL Duration `yaml:"pending_order_ttl"`
}

type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

type GRPCConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	DefaultTopic string   `yaml:"default_topic"`
}

type GatewayConfig struct {
	KeyID     string   `yaml:"key_id"`
	KeySecret string   `yaml:"key_secret"`
	APIBase   string   `yaml:"api_base"`
	Timeout   Duration `yaml:"timeout"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type DocumentsConfig struct {
	Root string `yaml:"root"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type OutboxConfig struct {
	PollInterval  Duration `yaml:"poll_interval"`
	BatchSize     int      `yaml:"batch_size"`
	ClaimDuration Duration `yaml:"claim_duration"`
	MaxRetries    int      `yaml:"max_retries"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func defaults() Config {
	return Config{
		Service: ServiceConfig{
			Name:            "helpbridge-coordination-service",
			SupportEmail:    "support@helpbridge.org",
			Currency:        "INR",
			PendingOrderTTL: Duration(24 * time.Hour),
		},
		HTTP: HTTPConfig{
			Port:            8080,
			ShutdownTimeout: Duration(15 * time.Second),
		},
		GRPC: GRPCConfig{
			Port: 9090,
		},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Kafka: KafkaConfig{
			DefaultTopic: "helpbridge.events",
		},
		Gateway: GatewayConfig{
			Timeout: Duration(10 * time.Second),
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "noreply@helpbridge.org",
		},
		Security: SecurityConfig{
			BcryptCost: 10,
		},
		Outbox: OutboxConfig{
			PollInterval:  Duration(2 * time.Second),
			BatchSize:     50,
			ClaimDuration: Duration(time.Minute),
			MaxRetries:    5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load resolves configuration from defaults, an optional YAML file, and
// environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Service.Name, "HELPBRIDGE_SERVICE_NAME")
	setString(&cfg.Service.SupportEmail, "HELPBRIDGE_SUPPORT_EMAIL")
	setString(&cfg.Service.Currency, "HELPBRIDGE_CURRENCY")
	setInt(&cfg.HTTP.Port, "HELPBRIDGE_HTTP_PORT")
	setInt(&cfg.GRPC.Port, "HELPBRIDGE_GRPC_PORT")
	setString(&cfg.Database.URL, "HELPBRIDGE_DATABASE_URL")
	setString(&cfg.Redis.URL, "HELPBRIDGE_REDIS_URL")
	setString(&cfg.Kafka.DefaultTopic, "HELPBRIDGE_KAFKA_TOPIC")
	setString(&cfg.Gateway.KeyID, "HELPBRIDGE_GATEWAY_KEY_ID")
	setString(&cfg.Gateway.KeySecret, "HELPBRIDGE_GATEWAY_KEY_SECRET")
	setString(&cfg.Gateway.APIBase, "HELPBRIDGE_GATEWAY_API_BASE")
	setString(&cfg.SMTP.Host, "HELPBRIDGE_SMTP_HOST")
	setInt(&cfg.SMTP.Port, "HELPBRIDGE_SMTP_PORT")
	setString(&cfg.SMTP.Username, "HELPBRIDGE_SMTP_USERNAME")
	setString(&cfg.SMTP.Password, "HELPBRIDGE_SMTP_PASSWORD")
	setString(&cfg.SMTP.From, "HELPBRIDGE_SMTP_FROM")
	setString(&cfg.Documents.Root, "HELPBRIDGE_DOCUMENT_ROOT")
	setString(&cfg.Logging.Level, "HELPBRIDGE_LOG_LEVEL")

	if v := os.Getenv("HELPBRIDGE_KAFKA_BROKERS"); v != "" {
		parts := strings.Split(v, ",")
		brokers := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				brokers = append(brokers, p)
			}
		}
		cfg.Kafka.Brokers = brokers
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
