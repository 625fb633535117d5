package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del proceso. Se construye una sola vez
// en main y se pasa por referencia; no hay estado global mutable.
type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret    string
	JWTAlg       string
	ServiceToken string

	// LLMProvider selecciona la implementación del puente LLM: "gemini" o
	// "cohere".
	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	CohereAPIKey string
	CohereModel  string
	LLMTimeout   time.Duration

	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	S3Bucket string
	S3Region string

	AllowOrigins string
}

// LoadConfig lee variables de entorno (cargando .env en desarrollo si
// existe). La única condición fatal es la ausencia de la API key del
// proveedor LLM seleccionado: sin ella el proceso no debe arrancar.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "central"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:    getEnv("CHAT_JWT_SECRET", "dev-secret-change-me"),
		JWTAlg:       getEnv("CHAT_JWT_ALG", "HS256"),
		ServiceToken: os.Getenv("CHAT_SERVICE_TOKEN"),

		LLMProvider:  getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		CohereAPIKey: os.Getenv("COHERE_API_KEY"),
		CohereModel:  getEnv("COHERE_MODEL", "command-r"),
		LLMTimeout:   time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 15)) * time.Second,

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Restaurante Central"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		S3Bucket: os.Getenv("S3_BUCKET_NAME"),
		S3Region: getEnv("S3_REGION", "us-east-1"),

		AllowOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:4200"),
	}

	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY no ha sido configurada")
		}
	case "cohere":
		if cfg.CohereAPIKey == "" {
			return nil, fmt.Errorf("COHERE_API_KEY no ha sido configurada")
		}
	default:
		return nil, fmt.Errorf("LLM_PROVIDER desconocido: %q", cfg.LLMProvider)
	}

	return cfg, nil
}

// GetDBConnString arma la cadena de conexión de Postgres.
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
