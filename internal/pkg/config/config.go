package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (policy knobs, timeouts, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Detection DetectionConfig
	Gate      GateConfig
	Payment   PaymentConfig
	AWS       AWSConfig
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
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
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
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// DetectionConfig holds the deduplicator policy values.
type DetectionConfig struct {
	MinConfidence  int           `envconfig:"DETECTION_MIN_CONFIDENCE" default:"85"`
	DebounceWindow time.Duration `envconfig:"DETECTION_DEBOUNCE_WINDOW" default:"5s"`
}

// GateConfig holds the gate command dispatcher policy values.
type GateConfig struct {
	AckTimeout   time.Duration `envconfig:"GATE_ACK_TIMEOUT" default:"3s"`
	MaxAttempts  int           `envconfig:"GATE_MAX_ATTEMPTS" default:"3"`
	RetryBackoff time.Duration `envconfig:"GATE_RETRY_BACKOFF" default:"500ms"`
}

type PaymentConfig struct {
	ProviderURL    string        `envconfig:"PAYMENT_PROVIDER_URL" default:""`
	RequestTimeout time.Duration `envconfig:"PAYMENT_REQUEST_TIMEOUT" default:"10s"`
}

type AWSConfig struct {
	Region           string `envconfig:"AWS_REGION" default:"ap-southeast-1"`
	EventQueueURL    string `envconfig:"SQS_EVENT_QUEUE_URL" default:""`
	IoTMQTTEndpoint  string `envconfig:"IOT_MQTT_ENDPOINT" default:""`
	CommandTopicBase string `envconfig:"IOT_COMMAND_TOPIC_BASE" default:"parkgate/command/gates"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
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
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error",
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Detection: DetectionConfig{
			MinConfidence:  85,
			DebounceWindow: 5 * time.Second,
		},
		Gate: GateConfig{
			AckTimeout:   100 * time.Millisecond,
			MaxAttempts:  3,
			RetryBackoff: 10 * time.Millisecond,
		},
	}
}
