package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Sheets SheetsConfig
	Cache  CacheConfig
	AI     AIConfig
	Export ExportConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// SheetsConfig points at the plant workbook. The service account only needs
// read access; this system never writes back.
type SheetsConfig struct {
	CredentialsJSON string
	CredentialsFile string
	SpreadsheetID   string
}

type CacheConfig struct {
	Backend       string // "memory" or "redis"
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// AIConfig drives the analysis layer. An empty APIKey sends every request
// straight to the rule-based fallback.
type AIConfig struct {
	APIKey          string
	Endpoint        string
	Models          []string
	TimeoutSeconds  int
	BreakageHighPct float64
	OEECriticalPct  float64
	OEETargetPct    float64
	DowntimeHighMin int
}

type ExportConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("GOOGLE_SHEETS_CREDENTIALS_JSON", "")
		viper.SetDefault("GOOGLE_SHEETS_CREDENTIALS_FILE", "")
		viper.SetDefault("GOOGLE_SHEET_ID", "")
		viper.SetDefault("CACHE_BACKEND", "memory")
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 60)
		viper.SetDefault("AI_API_KEY", "")
		viper.SetDefault("AI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models")
		viper.SetDefault("AI_MODELS", "gemini-1.5-flash,gemini-1.5-flash-latest,gemini-1.5-flash-002,gemini-1.5-pro,gemini-pro")
		viper.SetDefault("AI_TIMEOUT_SECONDS", 30)
		viper.SetDefault("AI_BREAKAGE_HIGH_PCT", 2.0)
		viper.SetDefault("AI_OEE_CRITICAL_PCT", 65.0)
		viper.SetDefault("AI_OEE_TARGET_PCT", 85.0)
		viper.SetDefault("AI_DOWNTIME_HIGH_MIN", 120)
		viper.SetDefault("EXPORT_ENDPOINT", "")
		viper.SetDefault("EXPORT_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_SECRET_KEY", "")
		viper.SetDefault("EXPORT_BUCKET", "planta-reports")
		viper.SetDefault("EXPORT_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Sheets: SheetsConfig{
				CredentialsJSON: viper.GetString("GOOGLE_SHEETS_CREDENTIALS_JSON"),
				CredentialsFile: viper.GetString("GOOGLE_SHEETS_CREDENTIALS_FILE"),
				SpreadsheetID:   viper.GetString("GOOGLE_SHEET_ID"),
			},
			Cache: CacheConfig{
				Backend:       viper.GetString("CACHE_BACKEND"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			AI: AIConfig{
				APIKey:          viper.GetString("AI_API_KEY"),
				Endpoint:        viper.GetString("AI_ENDPOINT"),
				Models:          splitList(viper.GetString("AI_MODELS")),
				TimeoutSeconds:  viper.GetInt("AI_TIMEOUT_SECONDS"),
				BreakageHighPct: viper.GetFloat64("AI_BREAKAGE_HIGH_PCT"),
				OEECriticalPct:  viper.GetFloat64("AI_OEE_CRITICAL_PCT"),
				OEETargetPct:    viper.GetFloat64("AI_OEE_TARGET_PCT"),
				DowntimeHighMin: viper.GetInt("AI_DOWNTIME_HIGH_MIN"),
			},
			Export: ExportConfig{
				Endpoint:  viper.GetString("EXPORT_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_BUCKET"),
				UseSSL:    viper.GetBool("EXPORT_USE_SSL"),
			},
		}
	})

	return instance
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
