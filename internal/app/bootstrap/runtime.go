package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/helpbridge/helpbridge/internal/adapters/cache"
	"github.com/helpbridge/helpbridge/internal/adapters/events"
	"github.com/helpbridge/helpbridge/internal/adapters/gateway"
	httpadapter "github.com/helpbridge/helpbridge/internal/adapters/http"
	"github.com/helpbridge/helpbridge/internal/adapters/memory"
	"github.com/helpbridge/helpbridge/internal/adapters/notify"
	"github.com/helpbridge/helpbridge/internal/adapters/postgres"
	"github.com/helpbridge/helpbridge/internal/adapters/security"
	"github.com/helpbridge/helpbridge/internal/adapters/storage"
	"github.com/helpbridge/helpbridge/internal/application"
	"github.com/helpbridge/helpbridge/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

// Runtime wires configuration into connected adapters and the application
// service. The same runtime backs both the API and worker processes.
type Runtime struct {
	Config  Config
	Logger  *slog.Logger
	Service *application.Service

	db        *gorm.DB
	outbox    ports.OutboxRepository
	notifier  ports.Notifier
	publisher ports.EventPublisher
	closers   []func() error
}

// NewRuntime connects every configured backend. With no database URL the
// runtime falls back to in-memory stores, which keeps local development free
// of infrastructure.
func NewRuntime(ctx context.Context, cfg Config) (*Runtime, error) {
	logger := newLogger(cfg.Logging.Level, cfg.Service.Name)
	slog.SetDefault(logger)

	rt := &Runtime{Config: cfg, Logger: logger}

	var (
		repos  postgres.Repositories
		orders ports.PendingOrderStore
	)
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return nil, err
		}
		rt.db = db
		repos = postgres.NewRepositories(db)
		rt.closers = append(rt.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	} else {
		logger.WarnContext(ctx, "no database configured, using in-memory stores",
			"module", "bootstrap",
			"layer", "app",
			"operation", "wire_storage",
			"outcome", "fallback",
		)
		mem := memory.NewRepositories()
		repos = postgres.Repositories{
			Requests:      mem.Requests,
			Campaigns:     mem.Campaigns,
			Donations:     mem.Donations,
			Identities:    mem.Identities,
			Notifications: mem.Notifications,
			Outbox:        mem.Outbox,
		}
	}
	rt.outbox = repos.Outbox

	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		orders = cache.NewOrderStore(client)
		rt.closers = append(rt.closers, client.Close)
	} else {
		orders = memory.NewPendingOrderStore()
	}

	var gw ports.PaymentGateway
	if cfg.Gateway.KeyID != "" && cfg.Gateway.KeySecret != "" {
		gw = gateway.NewClient(gateway.Config{
			KeyID:     cfg.Gateway.KeyID,
			KeySecret: cfg.Gateway.KeySecret,
			APIBase:   cfg.Gateway.APIBase,
			Timeout:   cfg.Gateway.Timeout.Std(),
		})
	}

	rt.notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	if len(cfg.Kafka.Brokers) > 0 {
		pub := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			DefaultTopic: cfg.Kafka.DefaultTopic,
		})
		rt.publisher = pub
		rt.closers = append(rt.closers, pub.Close)
	} else {
		rt.publisher = events.NewLoggingPublisher()
	}

	rt.Service = application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:     cfg.Service.Name,
			Currency:        cfg.Service.Currency,
			PendingOrderTTL: cfg.Service.PendingOrderTTL.Std(),
			SupportEmail:    cfg.Service.SupportEmail,
		},
		Requests:      repos.Requests,
		Campaigns:     repos.Campaigns,
		Donations:     repos.Donations,
		Identities:    repos.Identities,
		Notifications: repos.Notifications,
		Outbox:        repos.Outbox,
		Gateway:       gw,
		Orders:        orders,
		Documents:     storage.NewLocalDocumentStore(cfg.Documents.Root),
		Hasher:        security.NewBcryptHasher(cfg.Security.BcryptCost),
	})
	return rt, nil
}

// RunAPI serves HTTP and gRPC health until the context is cancelled or a
// termination signal arrives.
func (rt *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := httpadapter.NewRouter(rt.Service, rt.readiness, rt.Logger)
	server := &nethttp.Server{
		Addr:              fmt.Sprintf(":%d", rt.Config.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 2)
	go func() {
		rt.Logger.InfoContext(ctx, "http server listening",
			"module", "bootstrap",
			"layer", "app",
			"operation", "serve_http",
			"port", rt.Config.HTTP.Port,
		)
		if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", rt.Config.GRPC.Port))
		if err != nil {
			errCh <- fmt.Errorf("grpc listen: %w", err)
			return
		}
		rt.Logger.InfoContext(ctx, "grpc health server listening",
			"module", "bootstrap",
			"layer", "app",
			"operation", "serve_grpc",
			"port", rt.Config.GRPC.Port,
		)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.Config.HTTP.ShutdownTimeout.Std())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		rt.Logger.Error("http shutdown failed",
			"module", "bootstrap",
			"layer", "app",
			"operation", "shutdown",
			"outcome", "error",
			"error", err,
		)
	}
	grpcServer.GracefulStop()
	return rt.Close()
}

// RunWorker drains the outbox until the context is cancelled or a
// termination signal arrives.
func (rt *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := events.NewOutboxWorker(events.OutboxWorkerConfig{
		PollInterval:  rt.Config.Outbox.PollInterval.Std(),
		BatchSize:     rt.Config.Outbox.BatchSize,
		ClaimDuration: rt.Config.Outbox.ClaimDuration.Std(),
		MaxRetries:    rt.Config.Outbox.MaxRetries,
	}, rt.outbox, rt.publisher, rt.notifier, rt.Logger)

	rt.Logger.InfoContext(ctx, "outbox worker started",
		"module", "bootstrap",
		"layer", "app",
		"operation", "run_worker",
	)
	worker.Run(ctx)
	return rt.Close()
}

func (rt *Runtime) readiness() error {
	if rt.db == nil {
		return nil
	}
	sqlDB, err := rt.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close releases connected backends in reverse wiring order.
func (rt *Runtime) Close() error {
	var firstErr error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func newLogger(level, serviceName string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With("service", serviceName)
}
