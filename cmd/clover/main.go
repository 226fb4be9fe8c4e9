package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/pitchside/clover/config"
	playerrepo "github.com/pitchside/clover/internal/repositories/player"
	"github.com/pitchside/clover/internal/sources/footballdb"
	"github.com/pitchside/clover/internal/sources/soccerwiki"
	"github.com/pitchside/clover/pkg/database"
	"github.com/pitchside/clover/pkg/events"
	"github.com/pitchside/clover/pkg/graph"
	"github.com/pitchside/clover/pkg/kafka"
	"github.com/pitchside/clover/pkg/middleware"
	"github.com/pitchside/clover/pkg/resolve"
	healthroutes "github.com/pitchside/clover/pkg/routes/health"
	playerroutes "github.com/pitchside/clover/pkg/routes/player"
	"github.com/pitchside/clover/pkg/tracing"
)

const version = "0.1.0"

func main() {
	boot := zap.Must(zap.NewProduction())
	defer boot.Sync()

	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		boot.Sugar().Fatalw("failed to load configuration", "error", err)
	}

	logger := ectologger.NewDefaultEctoLogger()

	if err := run(cfg, logger); err != nil {
		boot.Sugar().Fatalw("service exited", "error", err)
	}
}

func run(cfg config.Config, logger ectologger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := sdktrace.NewTracerProvider()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	db, err := database.Connect(ctx, database.Config{
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		Username:        cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DatabaseName, cfg.DatabaseMigrationFolderPath, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := playerrepo.NewRepository(db, logger)

	httpClient := &http.Client{Timeout: cfg.AdapterCallTimeout}
	primary := soccerwiki.New(cfg.SoccerwikiBaseURL, httpClient, logger)
	secondary := footballdb.New(cfg.FootballDBBaseURL, httpClient, logger)

	orchestrator := resolve.NewOrchestrator(logger, primary, secondary, cfg.AdapterCallTimeout)
	disambiguator := resolve.NewDisambiguator(logger, orchestrator)

	var emitter *events.Emitter
	if cfg.KafkaProducerEnabled {
		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
		emitter = events.NewEmitter(producer, logger)
	}

	svc := resolve.NewService(logger, orchestrator, disambiguator, emitter)

	var graphSvc *graph.PlayerService
	if cfg.GraphEnabled {
		graphClient, err := graph.NewClient(graph.Config{
			Host:     cfg.GraphDBHost,
			Port:     cfg.GraphDBPort,
			Username: cfg.GraphDBUser,
			Password: cfg.GraphDBPassword,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to graph database: %w", err)
		}
		defer graphClient.Close(context.Background())
		graphSvc = graph.NewPlayerService(graphClient, logger)
	}

	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled {
		consumer = kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaInputTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}, logger, reconcileHandler(repo, svc, graphSvc, logger))
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start kafka consumer: %w", err)
		}
		defer consumer.Stop()
	}

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return fmt.Errorf("failed to create DI container: %w", err)
	}
	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[database.DB](container, db); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*playerrepo.Repository](container, repo); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*resolve.Service](container, svc); err != nil {
		return err
	}
	if graphSvc != nil {
		if err := ectoinject.RegisterInstance[*graph.PlayerService](container, graphSvc); err != nil {
			return err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	var consumerHealth interface{ Health() bool }
	if consumer != nil {
		consumerHealth = consumer
	}
	checker := healthroutes.NewChecker(db, consumerHealth, version)
	checker.Register(e)

	api := e.Group("/api/v1")
	playerroutes.Register(api.Group("/players"))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Infof("Starting %s on port %d", cfg.AppName, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	checker.SetReady(true)

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

// reconcileHandler refreshes one persisted player when a reconcile request
// arrives on the input topic.
func reconcileHandler(repo *playerrepo.Repository, svc *resolve.Service, graphSvc *graph.PlayerService, logger ectologger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, req *kafka.ReconcileRequest) error {
		row, err := repo.Get(ctx, req.PlayerID)
		if err != nil {
			return err
		}

		persisted, err := row.PlayerRecord()
		if err != nil {
			return err
		}

		name := req.Name
		if name == "" {
			name = persisted.Name
		}

		merged, matched, err := svc.Reconcile(ctx, row.ID, persisted, name)
		if err != nil {
			return err
		}
		if !matched {
			logger.WithContext(ctx).WithField("player_id", req.PlayerID).Info("No reconciliation candidate matched")
			return nil
		}

		if _, err := repo.UpdateRecord(ctx, row.ID, merged); err != nil {
			return err
		}
		if graphSvc != nil {
			if err := graphSvc.SyncPlayer(ctx, row.ID, merged); err != nil {
				logger.WithContext(ctx).WithError(err).Error("Failed to sync player to graph")
			}
		}
		return nil
	}
}
