package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// CSVPath points at the NYC Open Data 311 export to ingest.
	CSVPath   string
	OutputDir string

	MaxConcurrency int
	MaxRetries     int

	// TopN is how many complaint types the report ranks.
	TopN int

	// ProfileSampleSize / ScatterSampleSize bound how many records the
	// profiling report and the geographic scatter chart work from.
	ProfileSampleSize int
	ScatterSampleSize int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "nyc311"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "nyc311"),
		PostgresDB:       getEnv("POSTGRES_DB", "nyc311_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CSVPath:   getEnv("CSV_PATH", "./data/311_Service_Requests.csv"),
		OutputDir: getEnv("OUTPUT_DIR", "./output"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		TopN: getEnvInt("TOP_N", 10),

		ProfileSampleSize: getEnvInt("PROFILE_SAMPLE_SIZE", 30000),
		ScatterSampleSize: getEnvInt("SCATTER_SAMPLE_SIZE", 30000),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// OutputPath joins a file name onto the configured output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
