package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	localdb_adapter "github.com/collo670/NAPANGA-APP/internal/adapters/localdb"
	logger_adapter "github.com/collo670/NAPANGA-APP/internal/adapters/logger"
	notifier_adapter "github.com/collo670/NAPANGA-APP/internal/adapters/notifier"
	"github.com/collo670/NAPANGA-APP/internal/adapters/offlineproxy"
	postgres_adapter "github.com/collo670/NAPANGA-APP/internal/adapters/postgres"
	rabbitmq_adapter "github.com/collo670/NAPANGA-APP/internal/adapters/rabbitmq"
	rediscache_adapter "github.com/collo670/NAPANGA-APP/internal/adapters/rediscache"
	"github.com/collo670/NAPANGA-APP/internal/adapters/rest"
	"github.com/collo670/NAPANGA-APP/internal/configs"
	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
	"github.com/collo670/NAPANGA-APP/internal/core/usecase"
	"github.com/collo670/NAPANGA-APP/pkg/postgres"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	redisCache   *rediscache_adapter.CacheStoreAdapter
	apiServer    *rest.Server
	proxyServer  *offlineproxy.Server
	proxy        *offlineproxy.Proxy
	pushListener port.EventListenerPort
	seedUseCase  *usecase.SeedSampleDataUseCase
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluent.New(fluent.Config{
			FluentHost: appConfig.FluentBit.Host,
			FluentPort: appConfig.FluentBit.Port,
			TagPrefix:  appConfig.AppName, // Используем имя приложения как префикс
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ИНИЦИАЛИЗАЦИЯ ХРАНИЛИЩА ОБЪЯВЛЕНИЙ ---
	var dbPool *pgxpool.Pool
	var propertyStorage port.PropertyStoragePort

	switch appConfig.Storage.Driver {
	case "postgres":
		dbPool, err = postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Storage.DatabaseURL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		propertyStorage, err = postgres_adapter.NewPostgresPropertyStorageAdapter(context.Background(), dbPool)
		if err != nil {
			appLogger.Error("Failed to create postgres storage adapter", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create postgres storage adapter: %w", err)
		}
	case "local":
		propertyStorage = localdb_adapter.NewPropertyStoreAdapter(filepath.Join(appConfig.Storage.DataDir, "properties"), baseLogger)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER: %s", appConfig.Storage.Driver)
	}
	appLogger.Info("Property storage initialized.", port.Fields{"driver": appConfig.Storage.Driver})

	// --- 4. ИНИЦИАЛИЗАЦИЯ КЭША ---
	var redisCache *rediscache_adapter.CacheStoreAdapter
	var cacheStorage port.CacheStoragePort

	switch appConfig.Cache.Driver {
	case "redis":
		redisCache, err = rediscache_adapter.NewCacheStoreAdapter(context.Background(), appConfig.Cache.RedisAddr, baseLogger)
		if err != nil {
			appLogger.Error("Failed to connect to Redis", err, nil)
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		cacheStorage = redisCache
	case "local":
		cacheStorage = localdb_adapter.NewCacheStoreAdapter(filepath.Join(appConfig.Storage.DataDir, "cache"), baseLogger)
	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER: %s", appConfig.Cache.Driver)
	}
	appLogger.Info("Cache storage initialized.", port.Fields{"driver": appConfig.Cache.Driver})

	// --- 5. ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики) ---
	addPropertyUseCase := usecase.NewAddPropertyUseCase(propertyStorage, cacheStorage)
	getPropertyUseCase := usecase.NewGetPropertyUseCase(propertyStorage)
	updatePropertyUseCase := usecase.NewUpdatePropertyUseCase(propertyStorage, cacheStorage)
	deletePropertyUseCase := usecase.NewDeletePropertyUseCase(propertyStorage, cacheStorage)
	filterPropertiesUseCase := usecase.NewFilterPropertiesUseCase(propertyStorage, cacheStorage)
	countryStatsUseCase := usecase.NewCountryStatsUseCase(propertyStorage)
	seedUseCase := usecase.NewSeedSampleDataUseCase(propertyStorage, addPropertyUseCase)

	appLogger.Info("All use cases initialized.", nil)

	// --- 6. ИНИЦИАЛИЗАЦИЯ ВХОДЯЩИХ АДАПТЕРОВ ---
	var notificationsHandler http.HandlerFunc
	var pushListener port.EventListenerPort

	if appConfig.Push.Enabled {
		sseNotifier := notifier_adapter.NewSSENotifier(baseLogger)
		notificationsHandler = sseNotifier.SubscribeHandler

		dispatchPushUseCase := usecase.NewDispatchPushUseCase(sseNotifier)
		pushListener, err = rabbitmq_adapter.NewPushConsumerAdapter(appConfig.Push.RabbitMQURL, dispatchPushUseCase, baseLogger)
		if err != nil {
			appLogger.Error("Failed to create push consumer", err, nil)
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, err
		}
		appLogger.Info("Push Events Listener initialized.", nil)
	}

	// REST API Server
	propertyHandlers := rest.NewPropertyHandler(
		addPropertyUseCase,
		getPropertyUseCase,
		updatePropertyUseCase,
		deletePropertyUseCase,
		filterPropertiesUseCase,
		countryStatsUseCase,
	)

	apiServer := rest.NewServer(appConfig.Rest.PORT, propertyHandlers, notificationsHandler, appConfig.Rest.AllowedOrigins, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	// Кэширующий прокси
	upstreamURL, err := url.Parse(appConfig.Proxy.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("invalid PROXY_UPSTREAM_URL: %w", err)
	}
	partitions := offlineproxy.NewPartitionStore(appConfig.Proxy.CacheDir)
	proxy := offlineproxy.NewProxy(upstreamURL, partitions, appConfig.Proxy.EnableCaching, baseLogger)
	proxyServer := offlineproxy.NewServer(appConfig.Proxy.PORT, proxy, baseLogger)
	appLogger.Info("Offline proxy configured.", port.Fields{
		"upstream":        appConfig.Proxy.UpstreamURL,
		"caching_enabled": appConfig.Proxy.EnableCaching,
	})

	// --- 7. Собираем приложение ---
	application := &App{
		config:       appConfig,
		dbPool:       dbPool,
		redisCache:   redisCache,
		apiServer:    apiServer,
		proxyServer:  proxyServer,
		proxy:        proxy,
		pushListener: pushListener,
		seedUseCase:  seedUseCase,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	// Используем WaitGroup для ожидания завершения всех фоновых задач
	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		// Ждем завершения всех запущенных горутин (слушателей)
		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.proxyServer != nil {
			if err := a.proxyServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during proxy server shutdown", err, nil)
			}
		}

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		// Теперь безопасно закрываем ресурсы
		if a.pushListener != nil {
			if err := a.pushListener.Close(); err != nil {
				a.logger.Error("Error closing push listener", err, nil)
			}
		}

		if a.redisCache != nil {
			if err := a.redisCache.Close(); err != nil {
				a.logger.Error("Error closing Redis client", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	// Наполняем пустое хранилище демо-данными, если это включено
	if a.config.SeedSampleData {
		seedCtx := contextkeys.ContextWithLogger(appCtx, a.logger)
		if err := a.seedUseCase.Execute(seedCtx); err != nil {
			a.logger.Error("Failed to seed sample data", err, nil)
		}
	}

	errorsCh := make(chan error, 1)

	// Функция-хелпер для запуска слушателей
	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	if a.pushListener != nil {
		wg.Add(1)
		go startListener("Push Events Listener", a.pushListener)
	}

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	go func() {
		if err := a.proxyServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start proxy server: %w", err)
		}
	}()

	// Прогреваем статическую партицию и убираем кэши старых версий
	if a.config.Proxy.EnableCaching {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.proxy.Install(appCtx)
			if err := a.proxy.Activate(); err != nil {
				a.logger.Error("Failed to clean up old cache partitions", err, nil)
			}
		}()
	}

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
