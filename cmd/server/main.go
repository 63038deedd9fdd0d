package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/maynagashev/taskkeeper/internal/apierror"
	"github.com/maynagashev/taskkeeper/internal/handlers"
	"github.com/maynagashev/taskkeeper/internal/logging"
	appmiddleware "github.com/maynagashev/taskkeeper/internal/middleware"
	"github.com/maynagashev/taskkeeper/internal/repository"
	"github.com/maynagashev/taskkeeper/internal/security"
	"github.com/maynagashev/taskkeeper/internal/services"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	corsMaxAge             = 300
)

// Параметры scrypt. В тестах подменяются на более дешевые.
//
//nolint:gochecknoglobals // Переменная для подмены в тестах
var hashParams = security.DefaultParams

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	tokens      services.TokenValidator
	authHandler *handlers.AuthHandler
	taskHandler *handlers.TaskHandler
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	cfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	logger, closer, err := logging.Init(cfg.LogConfigPath)
	if err != nil {
		return fmt.Errorf("ошибка инициализации логирования: %w", err)
	}
	defer func() {
		if closeErr := closer.Close(); closeErr != nil {
			log.Printf("Ошибка закрытия файла лога: %v", closeErr)
		}
	}()

	ctx := context.Background()
	logger.Info(ctx, "запуск сервера списка задач", "addr", cfg.Addr)

	deps, err := setupDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      setupRouter(deps, logger),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка запуска HTTP-сервера: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	logger.Info(ctx, "получен сигнал остановки, завершаем работу")
	shutdownCtx, cancel := context.WithTimeout(ctx, defaultShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	logger.Info(ctx, "сервер остановлен")
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(cfg *config, logger logging.Logger) (*dependencies, error) {
	// 1. Хеширование паролей и токены
	hasher, err := security.NewHasher(hashParams())
	if err != nil {
		return nil, fmt.Errorf("ошибка настройки хеширования паролей: %w", err)
	}
	tokens, err := services.NewTokenManager([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("ошибка настройки токенов: %w", err)
	}

	// 2. Хранилища в памяти
	userRepo := repository.NewMemoryUserRepository(logger.Named("repository.user"))
	taskRepo := repository.NewMemoryTaskRepository(logger.Named("repository.task"))

	// 3. Сервисы
	authService := services.NewAuthService(userRepo, hasher, tokens, logger.Named("services.auth"))
	taskService := services.NewTaskService(taskRepo, logger.Named("services.task"))

	// 4. Обработчики
	return &dependencies{
		tokens:      tokens,
		authHandler: handlers.NewAuthHandler(authService, logger.Named("handlers.auth")),
		taskHandler: handlers.NewTaskHandler(taskService, logger.Named("handlers.task")),
	}, nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(deps *dependencies, logger logging.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger(logger.Named("http")))
	r.Use(appmiddleware.Recoverer(logger.Named("http")))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", appmiddleware.RequestIDHeader},
		ExposedHeaders: []string{appmiddleware.RequestIDHeader},
		MaxAge:         corsMaxAge,
	}))

	r.NotFound(apierror.NotFound(logger.Named("http")))
	r.MethodNotAllowed(apierror.MethodNotAllowed(logger.Named("http")))

	// --- Маршруты --- //
	r.Get("/", handlers.Welcome)

	// Публичные маршруты (регистрация, вход)
	r.Post("/user", deps.authHandler.Register)
	r.Post("/login", deps.authHandler.Login)

	// Приватные маршруты (требуют аутентификации)
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Authenticator(deps.tokens, logger.Named("middleware.auth")))

		r.Post("/create", deps.taskHandler.Create)
		r.Get("/all", deps.taskHandler.List)
		r.Put("/update/{id:[0-9]+}", deps.taskHandler.Update)
		r.Delete("/delete/{id:[0-9]+}", deps.taskHandler.Delete)
	})
	return r
}
