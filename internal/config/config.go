package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret         = "default-secret-change-in-production"
	defaultJWTRefreshSecret  = "default-refresh-secret-change-in-production"
	defaultTokenExpiration   = time.Hour
	defaultRefreshExpiration = 7 * 24 * time.Hour
	defaultSEOModel          = "llama-3.1-8b-instant"
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress             string
	DatabaseURI            string
	JWTSecret              string
	JWTRefreshSecret       string
	TokenExpiration        time.Duration
	RefreshTokenExpiration time.Duration
	RedisAddr              string
	KafkaBrokers           []string
	SEOAPIURL              string
	SEOAPIKey              string
	SEOModel               string
	LogLevel               string
}

// Load загружает конфигурацию из .env, флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
// Переменные из .env не перекрывают уже заданные в окружении.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	var tokenExp, kafkaBrokers string
	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.StringVar(&tokenExp, "t", defaultTokenExpiration.String(), "время жизни access-токена")
	flag.StringVar(&cfg.RedisAddr, "r", "", "адрес Redis для кеша каталога")
	flag.StringVar(&kafkaBrokers, "k", "", "брокеры Kafka через запятую")
	flag.StringVar(&cfg.LogLevel, "l", "info", "уровень логирования")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}
	if envTokenExp := os.Getenv("TOKEN_EXPIRATION"); envTokenExp != "" {
		tokenExp = envTokenExp
	}
	if envRedis := os.Getenv("REDIS_ADDR"); envRedis != "" {
		cfg.RedisAddr = envRedis
	}
	if envKafka := os.Getenv("KAFKA_BROKERS"); envKafka != "" {
		kafkaBrokers = envKafka
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		cfg.LogLevel = envLevel
	}

	// JWT секреты
	cfg.JWTSecret = envOrDefault("JWT_SECRET", defaultJWTSecret)
	cfg.JWTRefreshSecret = envOrDefault("JWT_REFRESH_SECRET", defaultJWTRefreshSecret)

	// Время жизни токенов
	cfg.TokenExpiration = parseDuration(tokenExp, defaultTokenExpiration)
	cfg.RefreshTokenExpiration = parseDuration(os.Getenv("REFRESH_TOKEN_EXPIRATION"), defaultRefreshExpiration)

	cfg.KafkaBrokers = splitList(kafkaBrokers)

	// Генератор SEO-описаний
	cfg.SEOAPIURL = os.Getenv("SEO_API_URL")
	cfg.SEOAPIKey = os.Getenv("SEO_API_KEY")
	cfg.SEOModel = envOrDefault("SEO_MODEL", defaultSEOModel)

	return cfg
}

func envOrDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// parseDuration возвращает def для пустых, невалидных и неположительных значений.
func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
