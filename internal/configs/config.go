package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// StorageConfig выбирает драйвер хранилища объявлений
type StorageConfig struct {
	Driver      string // local | postgres
	DataDir     string
	DatabaseURL string
}

// CacheConfig выбирает драйвер зеркала кэша
type CacheConfig struct {
	Driver    string // local | redis
	RedisAddr string
}

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

// ProxyConfig - настройки кэширующего прокси
type ProxyConfig struct {
	PORT          string
	UpstreamURL   string
	CacheDir      string
	EnableCaching bool
}

// PushConfig - настройки канала push-уведомлений
type PushConfig struct {
	Enabled     bool
	RabbitMQURL string
}

type StdoutLogConfig struct {
	Level string // По умолчанию DEBUG
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string // По умолчанию INFO
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName        string
	Storage        StorageConfig
	Cache          CacheConfig
	Rest           RESTconfig
	Proxy          ProxyConfig
	Push           PushConfig
	SeedSampleData bool
	FluentBit      FluentBitConfig
	StdoutLogger   StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}

	if err != nil {
		// Отсутствие .env не фатально: все значения имеют умолчания
		// или берутся из окружения напрямую
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = os.Getenv("APP_NAME")
	if cfg.AppName == "" {
		cfg.AppName = "napanga" // Устанавливаем default
	}

	// Читаем конфигурацию хранилища
	cfg.Storage.Driver = getEnvAsString("STORAGE_DRIVER", "local")
	cfg.Storage.DataDir = getEnvAsString("DATA_DIR", "./data")
	cfg.Storage.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.Storage.Driver == "postgres" && cfg.Storage.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// Читаем конфигурацию кэша
	cfg.Cache.Driver = getEnvAsString("CACHE_DRIVER", "local")
	cfg.Cache.RedisAddr = getEnvAsString("REDIS_ADDR", "localhost:6379")

	// Читаем конфигурацию для REST
	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	for _, origin := range strings.Split(getEnvAsString("ALLOWED_ORIGINS", "http://localhost:5173"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.Rest.AllowedOrigins = append(cfg.Rest.AllowedOrigins, origin)
		}
	}

	// Читаем конфигурацию прокси
	cfg.Proxy.PORT = getEnvAsString("PROXY_PORT", "8081")
	cfg.Proxy.UpstreamURL = getEnvAsString("PROXY_UPSTREAM_URL", "http://localhost:"+cfg.Rest.PORT)
	cfg.Proxy.CacheDir = getEnvAsString("PROXY_CACHE_DIR", "./proxy-cache")
	cfg.Proxy.EnableCaching = getEnvAsBool("ENABLE_CACHING", true)

	// Читаем конфигурацию push-уведомлений
	cfg.Push.Enabled = getEnvAsBool("PUSH_ENABLED", false)
	if cfg.Push.Enabled {
		cfg.Push.RabbitMQURL = os.Getenv("RABBITMQ_URL")
		if cfg.Push.RabbitMQURL == "" {
			log.Println("WARNING: PUSH_ENABLED is true, but RABBITMQ_URL is not set. Disabling push notifications.")
			cfg.Push.Enabled = false
		}
	}

	cfg.SeedSampleData = getEnvAsBool("SEED_SAMPLE_DATA", false)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
