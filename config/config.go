package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreBackendSheets = "sheets"
	StoreBackendXLSX   = "xlsx"
	StoreBackendMemory = "memory"

	BackendNone     = "none"
	BackendPubSub   = "pubsub"
	BackendRabbitMQ = "rabbitmq"
	BackendGCS      = "gcs"
	BackendMinio    = "minio"
)

type Config struct {
	ServerPort int    `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"json"`

	Store    StoreConfig
	Sheets   SheetNames
	Count    CountConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Events   EventsConfig
	PubSub   PubSubConfig
	RabbitMQ RabbitMQConfig
	Export   ExportConfig
	GCS      GCSConfig
	Minio    MinioConfig
}

// StoreConfig selects and configures the tabular store backend.
type StoreConfig struct {
	Backend         string `envconfig:"STORE_BACKEND" default:"sheets"`
	SpreadsheetID   string `envconfig:"GOOGLE_SHEETS_SPREADSHEET_ID"`
	CredentialsFile string `envconfig:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	XLSXPath        string `envconfig:"XLSX_PATH" default:"inventory.xlsx"`
}

// SheetNames holds the tab names of the spreadsheet. Column order inside
// each tab is fixed by the store package.
type SheetNames struct {
	Auth      string `envconfig:"SHEET_AUTH" default:"AUTH"`
	Inventory string `envconfig:"SHEET_INVENTORY" default:"재고"`
	Count     string `envconfig:"SHEET_COUNT" default:"재고조사"`
	Log       string `envconfig:"SHEET_LOG" default:"재고로그"`
}

type CountConfig struct {
	// Timezone decides which calendar day a submission is logged under.
	Timezone string `envconfig:"COUNT_TIMEZONE" default:"UTC"`
}

// Location resolves the configured timezone, falling back to UTC.
func (c CountConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type AuthConfig struct {
	InventoryAuthRequired bool          `envconfig:"INVENTORY_AUTH_REQUIRED" default:"false"`
	LoginWindow           time.Duration `envconfig:"LOGIN_RATE_LIMIT_WINDOW" default:"1m"`
	LoginLimit            int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
}

type RedisConfig struct {
	URL         string        `envconfig:"REDIS_URL"`
	DialTimeout time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
}

type EventsConfig struct {
	Backend string `envconfig:"EVENTS_BACKEND" default:"none"`
	Topic   string `envconfig:"EVENTS_TOPIC" default:"inventory.count.updated"`
}

type PubSubConfig struct {
	ProjectID          string `envconfig:"PUBSUB_PROJECT_ID"`
	CredentialsFile    string `envconfig:"PUBSUB_CREDENTIALS_FILE"`
	SubscriptionSuffix string `envconfig:"PUBSUB_SUBSCRIPTION_SUFFIX" default:"-sub"`
}

type RabbitMQConfig struct {
	URL             string `envconfig:"RABBITMQ_URL"`
	QueueDurable    bool   `envconfig:"RABBITMQ_QUEUE_DURABLE" default:"true"`
	QueueAutoDelete bool   `envconfig:"RABBITMQ_QUEUE_AUTO_DELETE" default:"false"`
	PrefetchCount   int    `envconfig:"RABBITMQ_PREFETCH_COUNT" default:"10"`
}

type ExportConfig struct {
	Backend string `envconfig:"EXPORT_BACKEND" default:"none"`
	Prefix  string `envconfig:"EXPORT_PREFIX" default:"snapshots/"`
}

type GCSConfig struct {
	Bucket          string `envconfig:"GCS_BUCKET"`
	ProjectID       string `envconfig:"GCS_PROJECT_ID"`
	CredentialsFile string `envconfig:"GCS_CREDENTIALS_FILE"`
}

type MinioConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
