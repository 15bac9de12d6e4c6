package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers for the Account Store.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Push providers for the notification dispatcher.
const (
	PushExpo = "expo"
	PushFCM  = "fcm"
	PushNone = "none"
)

// Event drivers for wallet events.
const (
	EventsNone     = "none"
	EventsRedis    = "redis"
	EventsRabbitMQ = "rabbitmq"
	EventsKafka    = "kafka"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	DatabaseURL   string
	StorageDriver string
	EnableDBCheck bool
	// MigrationsPath is a golang-migrate source URL, e.g. file://migrations
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	RequireAuth       bool
	GoogleClientID    string

	InitialBalance      decimal.Decimal
	TransferMaxAttempts int

	PushProvider           string
	ExpoPushURL            string
	FirebaseServiceAccount string
	NotificationTimeout    time.Duration
	NotificationWorkers    int
	NotificationQueueSize  int

	RedisURL        string
	AccountCacheTTL time.Duration

	EventsDriver string
	EventsStream string
	RabbitMQURL  string
	KafkaBrokers []string

	PosthogAPIKey      string
	CORSAllowedOrigins []string
	AuthRateLimit      string
	ReconcileSchedule  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "pocket-wallet")
	v.SetDefault("REQUIRE_AUTH", false)
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("INITIAL_BALANCE", "4500")
	v.SetDefault("TRANSFER_MAX_ATTEMPTS", 3)
	v.SetDefault("PUSH_PROVIDER", PushExpo)
	v.SetDefault("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT", "")
	v.SetDefault("NOTIFICATION_TIMEOUT", "5s")
	v.SetDefault("NOTIFICATION_WORKERS", 4)
	v.SetDefault("NOTIFICATION_QUEUE_SIZE", 256)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ACCOUNT_CACHE_TTL", "30s")
	v.SetDefault("EVENTS_DRIVER", EventsNone)
	v.SetDefault("EVENTS_STREAM", "wallet.events")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("AUTH_RATE_LIMIT", "20-M")
	v.SetDefault("RECONCILE_SCHEDULE", "@every 1h")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		DatabaseURL:            v.GetString("PGSQL_URL"),
		StorageDriver:          strings.ToLower(v.GetString("STORAGE_DRIVER")),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:         v.GetString("MIGRATIONS_PATH"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTIssuer:              v.GetString("JWT_ISSUER"),
		RequireAuth:            v.GetBool("REQUIRE_AUTH"),
		GoogleClientID:         v.GetString("GOOGLE_CLIENT_ID"),
		PushProvider:           strings.ToLower(v.GetString("PUSH_PROVIDER")),
		ExpoPushURL:            v.GetString("EXPO_PUSH_URL"),
		FirebaseServiceAccount: v.GetString("FIREBASE_SERVICE_ACCOUNT"),
		RedisURL:               v.GetString("REDIS_URL"),
		EventsDriver:           strings.ToLower(v.GetString("EVENTS_DRIVER")),
		EventsStream:           v.GetString("EVENTS_STREAM"),
		RabbitMQURL:            v.GetString("RABBITMQ_URL"),
		KafkaBrokers:           splitList(v.GetString("KAFKA_BROKERS")),
		PosthogAPIKey:          v.GetString("POSTHOG_API_KEY"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AuthRateLimit:          v.GetString("AUTH_RATE_LIMIT"),
		ReconcileSchedule:      v.GetString("RECONCILE_SCHEDULE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "pocket-wallet"
	}

	cfg.JWTExpiryDuration = durationOrDefault(v, "JWT_EXPIRY_DURATION", time.Hour)
	cfg.NotificationTimeout = durationOrDefault(v, "NOTIFICATION_TIMEOUT", 5*time.Second)
	cfg.AccountCacheTTL = durationOrDefault(v, "ACCOUNT_CACHE_TTL", 30*time.Second)

	cfg.TransferMaxAttempts = positiveIntOrDefault(v, "TRANSFER_MAX_ATTEMPTS", 3)
	cfg.NotificationWorkers = positiveIntOrDefault(v, "NOTIFICATION_WORKERS", 4)
	cfg.NotificationQueueSize = positiveIntOrDefault(v, "NOTIFICATION_QUEUE_SIZE", 256)

	initialStr := v.GetString("INITIAL_BALANCE")
	initial, err := decimal.NewFromString(initialStr)
	if err != nil || initial.IsNegative() {
		initial = decimal.NewFromInt(4500)
		log.Printf("Warning: Invalid value for INITIAL_BALANCE ('%s'). Defaulting to %s.\n", initialStr, initial.String())
	}
	cfg.InitialBalance = initial

	switch cfg.PushProvider {
	case PushExpo, PushNone:
	case PushFCM:
		if cfg.FirebaseServiceAccount == "" {
			log.Println("Warning: PUSH_PROVIDER is fcm but FIREBASE_SERVICE_ACCOUNT is not set. Push notifications are disabled.")
			cfg.PushProvider = PushNone
		}
	default:
		log.Printf("Warning: Unknown PUSH_PROVIDER ('%s'). Defaulting to %s.\n", cfg.PushProvider, PushExpo)
		cfg.PushProvider = PushExpo
	}

	switch cfg.EventsDriver {
	case EventsNone:
	case EventsRedis:
		if cfg.RedisURL == "" {
			log.Println("Warning: EVENTS_DRIVER is redis but REDIS_URL is not set. Events are disabled.")
			cfg.EventsDriver = EventsNone
		}
	case EventsRabbitMQ:
		if cfg.RabbitMQURL == "" {
			log.Println("Warning: EVENTS_DRIVER is rabbitmq but RABBITMQ_URL is not set. Events are disabled.")
			cfg.EventsDriver = EventsNone
		}
	case EventsKafka:
		if len(cfg.KafkaBrokers) == 0 {
			log.Println("Warning: EVENTS_DRIVER is kafka but KAFKA_BROKERS is not set. Events are disabled.")
			cfg.EventsDriver = EventsNone
		}
	default:
		log.Printf("Warning: Unknown EVENTS_DRIVER ('%s'). Events are disabled.\n", cfg.EventsDriver)
		cfg.EventsDriver = EventsNone
	}

	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	return cfg
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func positiveIntOrDefault(v *viper.Viper, key string, def int) int {
	n := v.GetInt(key)
	if n <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %d.\n", key, v.GetString(key), def)
		return def
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
