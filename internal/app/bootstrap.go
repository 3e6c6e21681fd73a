package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	segkafka "github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/command_router/config"
	cachemem "github.com/Gunvolt24/command_router/internal/cache/memory"
	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/kafka"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/internal/repo/postgres"
	rstore "github.com/Gunvolt24/command_router/internal/repo/redis"
	"github.com/Gunvolt24/command_router/internal/resolver"
	rest "github.com/Gunvolt24/command_router/internal/transport/http"
	"github.com/Gunvolt24/command_router/internal/usecase"
	"github.com/Gunvolt24/command_router/pkg/logger"
	"github.com/Gunvolt24/command_router/pkg/metrics"
	"github.com/Gunvolt24/command_router/pkg/telemetry"
)

// ConsumerFactory — фабрика консьюмеров команд с жизненным циклом.
type ConsumerFactory interface {
	ports.CommandConsumerFactory
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// App — собранное приложение и его внешние интерфейсы (HTTP, консьюмеры).
type App struct {
	Logger           ports.Logger          // логгер
	HTTPServer       *http.Server          // HTTP-сервер
	Factory          ConsumerFactory       // консьюмеры команд по тенантам
	InternalConsumer ports.MessageConsumer // зеркальный консьюмер внутреннего топика (может быть nil)
	BootstrapTenants []string              // тенанты, для которых консьюмеры создаются при старте
	gracefulTimeout  time.Duration         // время ожидания завершения HTTP-сервера и фабрики
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// kafkaErrorLogger — ошибки kafka-go в общий логгер.
func kafkaErrorLogger(log ports.Logger) segkafka.Logger {
	return segkafka.LoggerFunc(func(format string, args ...any) {
		log.Warnf(context.Background(), "kafka: "+format, args...)
	})
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Ресурсы, открытые до ошибки, освобождаются в обратном порядке.
	var closers []func()
	fail := func(err error) (*App, Cleanup, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.TracingOptions{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			InstanceID:  cfg.Internal.AdapterInstanceID,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}
	closers = append(closers, func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
	})

	// Миграции реестра тенантов.
	if cfg.Postgres.Migrate {
		if mErr := postgres.Migrate(cfg.Postgres.DSN, cfg.Postgres.MigrationsDir); mErr != nil {
			return fail(fmt.Errorf("migrations: %w", mErr))
		}
	}

	// Пул подключений Postgres.
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		ApplicationName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return fail(fmt.Errorf("postgres: %w", err))
	}
	closers = append(closers, pool.Close)

	// Redis: сведения о подключениях устройств.
	redisClient, err := rstore.NewClient(ctx, rstore.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err != nil {
		return fail(fmt.Errorf("redis: %w", err))
	}
	closers = append(closers, func() {
		if cErr := redisClient.Close(); cErr != nil {
			logg.Warnf(ctx, "redis close: %v", cErr)
		}
	})

	// Реестр тенантов: кэш → Postgres.
	tenantCache := cachemem.NewTenantCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	tenantRepo := postgres.NewTenantRepository(pool)
	tenantService := usecase.NewTenantService(tenantRepo, tenantCache, logg)

	// Прогрев кэша
	if n := cfg.Cache.WarmUpN; n > 0 {
		if wErr := tenantService.WarmUpCache(ctx, n); wErr != nil {
			logg.Warnf(ctx, "warm-up cache failed: %v", wErr)
		}
	}

	// Тенанты из конфигурации регистрируются в реестре.
	for _, id := range cfg.Bootstrap.Tenants {
		if _, rErr := tenantService.RegisterTenant(ctx, id, true); rErr != nil {
			return fail(fmt.Errorf("register bootstrap tenant %q: %w", id, rErr))
		}
	}

	// Поиск адаптера и подключения устройств.
	deviceStore := rstore.NewDeviceConnectionStore(redisClient, cfg.Redis.KeyPrefix)
	targetResolver := resolver.New(deviceStore, cfg.Kafka.ResolveTimeout)
	deviceService := usecase.NewDeviceConnectionService(tenantService, deviceStore, logg, 0)

	errLog := kafkaErrorLogger(logg)

	// Общий writer внутренних топиков.
	forwarder := kafka.NewInternalForwarder(&kafka.WriterConfig{
		Brokers:          cfg.Kafka.Brokers,
		TopicPrefix:      cfg.Kafka.TopicPrefix,
		AutoCreateTopics: cfg.Kafka.AutoCreateTopics,
		BatchTimeout:     cfg.Kafka.WriterBatchTimeout,
		BatchSize:        cfg.Kafka.ForwardBatchSize,
		BatchBytes:       cfg.Kafka.WriterBatchBytes,
		WriteTimeout:     cfg.Kafka.ForwardTimeout,
		ErrorLogger:      errLog,
	})
	closers = append(closers, func() {
		if cErr := forwarder.Close(); cErr != nil {
			logg.Warnf(ctx, "forwarder close: %v", cErr)
		}
	})

	// Фабрика консьюмеров команд.
	factory := kafka.NewCommandConsumerFactory(&kafka.FactoryConfig{
		Consumer: kafka.ConsumerConfig{
			Brokers:          cfg.Kafka.Brokers,
			GroupID:          cfg.Kafka.GroupID,
			StartOffset:      cfg.Kafka.StartOffset,
			RetryInitial:     cfg.Kafka.RetryInitial,
			RetryMax:         cfg.Kafka.RetryMax,
			MaxFetchFailures: cfg.Kafka.MaxFetchFailures,
			ErrorLogger:      errLog,
		},
		Pipeline: kafka.PipelineConfig{
			ResolveTimeout:          cfg.Kafka.ResolveTimeout,
			ResolveAttempts:         cfg.Kafka.ResolveAttempts,
			ForwardTimeout:          cfg.Kafka.ForwardTimeout,
			ForwardBatchSize:        cfg.Kafka.ForwardBatchSize,
			ForwardFailureThreshold: cfg.Kafka.ForwardFailureThreshold,
			RetryInitial:            cfg.Kafka.ForwardRetryInitial,
			RetryMax:                cfg.Kafka.ForwardRetryMax,
			CommitTimeout:           cfg.Kafka.CommitTimeout,
			CommitRetryInterval:     cfg.Kafka.CommitRetryInterval,
			MaxPendingPerPartition:  cfg.Kafka.MaxPendingPerPartition,
		},
		Topics: kafka.TopicConfig{
			AutoCreate:        cfg.Kafka.AutoCreateTopics,
			NumPartitions:     cfg.Kafka.TopicPartitions,
			ReplicationFactor: cfg.Kafka.ReplicationFactor,
		},
		TopicPrefix: cfg.Kafka.TopicPrefix,
	}, tenantService, targetResolver, forwarder, logg)

	// Зеркальный консьюмер своего внутреннего топика (если задан экземпляр адаптера).
	var internal ports.MessageConsumer
	if instance := cfg.Internal.AdapterInstanceID; instance != "" {
		internal = kafka.NewInternalCommandConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			Topic:          domain.InternalCommandTopic(cfg.Kafka.TopicPrefix, instance),
			GroupID:        cfg.Kafka.GroupID + "-" + instance,
			StartOffset:    "last",
			ProcessTimeout: cfg.Internal.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
			ErrorLogger:    errLog,
		}, usecase.NewCommandAudit(logg), logg)
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(factory, deviceService, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:           logg,
		HTTPServer:       httpSrv,
		Factory:          factory,
		InternalConsumer: internal,
		BootstrapTenants: cfg.Bootstrap.Tenants,
		gracefulTimeout:  cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке); общий writer закрывается после остановки фабрики в Run.
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает фабрику, консьюмеры стартовых тенантов и HTTP-сервер;
// ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	if err := a.Factory.Start(ctx); err != nil {
		return fmt.Errorf("start command consumer factory: %w", err)
	}
	for _, tenantID := range a.BootstrapTenants {
		// не фатально: консьюмер можно создать позже через HTTP
		if err := a.Factory.CreateCommandConsumer(ctx, tenantID); err != nil {
			a.Logger.Warnf(ctx, "bootstrap consumer tenant=%s failed: %v", tenantID, err)
		}
	}

	errCh := make(chan error, 2)

	// Запуск зеркального консьюмера.
	if a.InternalConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "internal command consumer starting")
			if err := a.InternalConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка консьюмеров команд: дожидаемся форвардов в полёте и коммитим оффсеты.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), gt)
	defer stopCancel()
	if err := a.Factory.Stop(stopCtx); err != nil {
		a.Logger.Warnf(ctx, "command consumer factory stop: %v", err)
	}

	if a.InternalConsumer != nil {
		if err := a.InternalConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "internal consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
