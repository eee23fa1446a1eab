package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort      string
	ServerHost      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxRequestBody  int64
	RateLimitRPS    int
	RateLimitBurst  int

	// API authentication; disabled without a secret
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	AuditEnabled     bool

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers         []string
	KafkaGroupID         string
	KafkaEnabled         bool
	TopicRecordBundles   string
	TopicVitalsSnapshots string
	TopicRiskAssessments string

	// Sepsis predictor
	PredictorURL          string
	PredictorToken        string
	PredictorTokenURL     string
	PredictorClientID     string
	PredictorClientSecret string
	PredictorTimeout      time.Duration

	// Literature
	LiteratureBaseURL  string
	LiteratureAPIKey   string
	LiteratureTimeout  time.Duration
	LiteratureCacheTTL time.Duration

	// Terminology
	CatalogPath string
}

func Load() *Config {
	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		ServerHost:      getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBody:  int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 4*1024*1024)),
		RateLimitRPS:    getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst:  getIntEnv("RATE_LIMIT_BURST", 100),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "bedside"),
		JWTAudience: getEnv("JWT_AUDIENCE", "bedside-dashboard"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "bedside"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "bedside"),
		PostgresDB:       getEnv("POSTGRES_DB", "bedside"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		AuditEnabled:     getBoolEnv("AUDIT_ENABLED", false),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:         getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:         getEnv("KAFKA_GROUP_ID", "bedside-dashboard"),
		KafkaEnabled:         getBoolEnv("KAFKA_ENABLED", false),
		TopicRecordBundles:   getEnv("KAFKA_TOPIC_RECORD_BUNDLES", "record-bundles"),
		TopicVitalsSnapshots: getEnv("KAFKA_TOPIC_VITALS_SNAPSHOTS", "vitals-snapshots"),
		TopicRiskAssessments: getEnv("KAFKA_TOPIC_RISK_ASSESSMENTS", "risk-assessments"),

		PredictorURL:          getEnv("SEPSIS_MODEL_URL", ""),
		PredictorToken:        getEnv("SEPSIS_MODEL_TOKEN", ""),
		PredictorTokenURL:     getEnv("SEPSIS_MODEL_TOKEN_URL", ""),
		PredictorClientID:     getEnv("SEPSIS_MODEL_CLIENT_ID", ""),
		PredictorClientSecret: getEnv("SEPSIS_MODEL_CLIENT_SECRET", ""),
		PredictorTimeout:      getDuration("SEPSIS_MODEL_TIMEOUT", 15*time.Second),

		LiteratureBaseURL:  getEnv("LITERATURE_BASE_URL", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"),
		LiteratureAPIKey:   getEnv("NCBI_API_KEY", ""),
		LiteratureTimeout:  getDuration("LITERATURE_TIMEOUT", 10*time.Second),
		LiteratureCacheTTL: getDuration("LITERATURE_CACHE_TTL", 6*time.Hour),

		CatalogPath: getEnv("TERMINOLOGY_CATALOG_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getStringSliceEnv splits a comma separated list.
func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
