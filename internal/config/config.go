package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App  AppConfig
	Keys APIKeys
	Ai   AIConfig
	Chat ChatConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type APIKeys struct {
	GoogleGemini      string
	JwtSecret         string
	AdminPasswordHash string // bcrypt hash of the admin password
}

type AIConfig struct {
	Model            string
	SettingsFilePath string
}

type ChatConfig struct {
	PersistDebounceMs  int
	HistoryTTLHours    int
	HistoryKeyPrefix   string
	PersistTopicName   string
	GatewayLogFilePath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Keys: APIKeys{
			GoogleGemini:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JwtSecret:         getEnv("JWT_SECRET", ""),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Ai: AIConfig{
			Model:            getEnv("LLM_MODEL", ""),
			SettingsFilePath: getEnv("SETTINGS_FILE_PATH", "data/settings.json"),
		},
		Chat: ChatConfig{
			PersistDebounceMs:  getEnvAsInt("HISTORY_DEBOUNCE_MS", 500),
			HistoryTTLHours:    getEnvAsInt("HISTORY_TTL_HOURS", 720),
			HistoryKeyPrefix:   getEnv("HISTORY_KEY_PREFIX", "chat:history:"),
			PersistTopicName:   getEnv("PERSIST_TIMELINE_TOPIC_NAME", "PERSIST_CHAT_TIMELINE"),
			GatewayLogFilePath: getEnv("GATEWAY_LOG_FILE_PATH", "logs/chat_gateway.log"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
