package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	// Адрес по умолчанию: только локальный интерфейс.
	defaultServerAddr = "127.0.0.1:5000"
	defaultLogConfig  = "logconfig.yml"
	defaultEnvFile    = ".env"

	// Переменные окружения.
	envServerAddr = "SERVER_ADDR"
	envLogConfig  = "LOG_CONFIG"
	envJWTSecret  = "JWT_SECRET" //nolint:gosec // Ложное срабатывание, это имя переменной окружения
)

// config хранит конфигурацию сервера.
type config struct {
	Addr          string
	LogConfigPath string
	JWTSecret     string
}

// loadEnvFile подгружает .env, если он есть. Уже заданные переменные окружения не перезаписываются.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	return nil
}

// parseFlags разбирает флаги и переменные окружения, возвращает config или ошибку.
func parseFlags() (*config, error) {
	cfg := &config{}

	// Определяем флаги
	flag.StringVar(&cfg.Addr, "addr", "",
		fmt.Sprintf("Адрес HTTP-сервера (env: %s, default: %s)", envServerAddr, defaultServerAddr))
	flag.StringVar(&cfg.LogConfigPath, "log-config", "",
		fmt.Sprintf("Путь к конфигурации логирования (env: %s, default: %s)", envLogConfig, defaultLogConfig))

	// Парсим флаги
	flag.Parse()

	if err := loadEnvFile(defaultEnvFile); err != nil {
		return nil, err
	}

	// Применяем переменные окружения, если флаги не заданы
	if cfg.Addr == "" {
		cfg.Addr = lookupEnv(envServerAddr, defaultServerAddr)
	}
	if cfg.LogConfigPath == "" {
		cfg.LogConfigPath = lookupEnv(envLogConfig, defaultLogConfig)
	}
	// Секрет читается только из окружения
	cfg.JWTSecret = os.Getenv(envJWTSecret)

	// Проверяем обязательные параметры
	if cfg.JWTSecret == "" {
		return nil, errors.New("не задан секрет подписи токенов (" + envJWTSecret + ")")
	}

	return cfg, nil
}

// lookupEnv получает значение переменной окружения или возвращает значение по умолчанию.
func lookupEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
