package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"

	"github.com/simaogato/wallet-backend/internal/adapter/cache"
	"github.com/simaogato/wallet-backend/internal/adapter/events"
	grpcadapter "github.com/simaogato/wallet-backend/internal/adapter/grpc"
	"github.com/simaogato/wallet-backend/internal/adapter/grpc/walletv1"
	"github.com/simaogato/wallet-backend/internal/adapter/repository/memory"
	"github.com/simaogato/wallet-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/wallet-backend/internal/config"
	"github.com/simaogato/wallet-backend/internal/domain"
	"github.com/simaogato/wallet-backend/internal/logger"
	"github.com/simaogato/wallet-backend/internal/usecase/dashboard"
	"github.com/simaogato/wallet-backend/internal/usecase/deposit"
	"github.com/simaogato/wallet-backend/internal/usecase/ledger"
	"github.com/simaogato/wallet-backend/internal/usecase/transfer"
	"github.com/simaogato/wallet-backend/internal/usecase/txrunner"
)

const (
	dbWaitTimeout  = 30 * time.Second
	publishTimeout = 5 * time.Second
)

type repositories struct {
	tm           domain.TransactionManager
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	deposits     domain.DepositRepository
	close        func() error
}

func main() {
	// 1. Configuration and logging
	cfg, dotenvLoaded, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if !dotenvLoaded {
		zapLogger.Info("no .env file found, using process environment")
	}
	if len(cfg.Auth.Tokens) == 0 {
		zapLogger.Warn("API_TOKENS is empty, every authenticated call will be rejected")
	}

	ctx := context.Background()

	// 2. Storage
	repos, err := openStorage(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to open storage", zap.String("storage", cfg.Storage), zap.Error(err))
	}
	defer repos.close()

	// 3. Event publishing (optional)
	var publisher domain.EventPublisher = events.NoopPublisher{}
	var async *events.AsyncPublisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			zapLogger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbit.Close()

		async = events.NewAsyncPublisher(rabbit, publishTimeout, zapLogger)
		publisher = async
		zapLogger.Info("publishing domain events", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	// 4. Services (use cases)
	runner := txrunner.NewRunner(repos.tm, cfg.Ledger.MaxRetries, zapLogger)
	ledgerService := ledger.NewLedgerService(repos.accounts, runner, publisher, cfg.Ledger.DefaultTransactionLimit, zapLogger)
	transferService := transfer.NewTransferService(repos.accounts, repos.transactions, ledgerService, runner, publisher, zapLogger)
	depositService := deposit.NewDepositService(repos.accounts, repos.deposits, ledgerService, runner, publisher, zapLogger)
	dashboardService := dashboard.NewDashboardService(repos.accounts, repos.deposits)

	// 5. Interceptors: logging, then identity, then idempotency (keys are scoped to the owner)
	interceptors := []grpclib.UnaryServerInterceptor{
		grpcadapter.LoggingInterceptor(zapLogger),
		grpcadapter.AuthInterceptor(grpcadapter.StaticTokenResolver(cfg.Auth.Tokens), grpcadapter.PublicMethods...),
	}
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			zapLogger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		interceptors = append(interceptors, grpcadapter.IdempotencyInterceptor(
			cache.NewIdempotencyStore(redisClient),
			cfg.Redis.IdempotencyTTL,
			zapLogger,
			grpcadapter.IdempotentMethods...,
		))
		zapLogger.Info("idempotency keys enabled", zap.Duration("ttl", cfg.Redis.IdempotencyTTL))
	}

	// 6. gRPC server
	grpcServer := grpclib.NewServer(grpclib.ChainUnaryInterceptor(interceptors...))

	grpcAdapter := grpcadapter.NewServer(ledgerService, transferService, depositService, dashboardService, zapLogger)
	walletv1.RegisterWalletServiceServer(grpcServer, grpcAdapter)

	addr := ":" + cfg.GRPCPort
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		zapLogger.Fatal("failed to listen", zap.String("addr", addr), zap.Error(err))
	}

	go func() {
		zapLogger.Info("gRPC server listening", zap.String("addr", addr), zap.String("storage", cfg.Storage))
		if err := grpcServer.Serve(lis); err != nil {
			zapLogger.Fatal("failed to serve gRPC server", zap.Error(err))
		}
	}()

	waitForShutdown(grpcServer, zapLogger)

	if async != nil {
		async.Wait()
	}
}

// openStorage builds the repositories for the configured backend
func openStorage(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore(cfg.Database.LockTimeout)
		zapLogger.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			tm:           store,
			accounts:     memory.NewAccountRepository(store),
			transactions: memory.NewTransactionRepository(store),
			deposits:     memory.NewDepositRepository(store),
			close:        func() error { return nil },
		}, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, dbWaitTimeout)
	defer cancel()

	db, err := postgres.WaitForDB(waitCtx, cfg.Database.ConnStr, time.Second)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	zapLogger.Info("database ready")

	return &repositories{
		tm:           postgres.NewTransactionManager(db, cfg.Database.LockTimeout, zapLogger),
		accounts:     postgres.NewAccountRepository(db),
		transactions: postgres.NewTransactionRepository(db),
		deposits:     postgres.NewDepositRepository(db),
		close:        db.Close,
	}, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, zapLogger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	zapLogger.Info("shutting down gracefully", zap.String("signal", sig.String()))

	grpcServer.GracefulStop()
	zapLogger.Info("gRPC server stopped")
}
