package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"questboard-indexer/config"
	"questboard-indexer/contracts"
	"questboard-indexer/handlers"
	"questboard-indexer/indexer"
	"questboard-indexer/logging"
	"questboard-indexer/projection"
	"questboard-indexer/readcache"
	"questboard-indexer/store"
)

func connectToDatabase(ctx context.Context, logger *zap.Logger, dbURL string) (*store.Postgres, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, xerrors.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, xerrors.Errorf("failed to ping database: %w", err)
	}

	s, err := store.NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to the database")
	return s, nil
}

func connectToEthereum(ctx context.Context, logger *zap.Logger, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, xerrors.Errorf("failed to connect to Ethereum client: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, xerrors.Errorf("failed to get chain id: %w", err)
	}

	logger.Info("connected to Ethereum node", zap.String("chain_id", chainID.String()))
	return client, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsLocal() {
		return logging.NewDevelopment(), nil
	}
	return logging.New(cfg.LogLevel)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewDevelopment().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		logging.NewDevelopment().Fatal("failed to create logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("indexer stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var s store.Store
	switch cfg.Store {
	case config.StorePostgres:
		pg, err := connectToDatabase(ctx, logger, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		s = pg
	default:
		logger.Warn("using in-memory store, state is lost on restart")
		s = store.NewMemory()
	}
	defer s.Close()

	ethClient, err := connectToEthereum(ctx, logger, cfg.RPCURL)
	if err != nil {
		return err
	}
	defer ethClient.Close()

	decoder, err := contracts.NewDecoder(cfg.Contracts())
	if err != nil {
		return xerrors.Errorf("failed to create decoder: %w", err)
	}

	var opts []indexer.Option
	if cfg.FirestoreProject != "" {
		mirror, err := readcache.New(ctx, logger, cfg.FirestoreProject, cfg.Env)
		if err != nil {
			return err
		}
		defer func() { _ = mirror.Close() }()
		opts = append(opts, indexer.WithSink(mirror))
	}

	ix := indexer.New(logger, cfg.Indexer(), ethClient, decoder, s, projection.New(logger), opts...)
	scheduler, err := ix.Start(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("failed to stop scheduler", zap.Error(err))
		}
	}()

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(logger, s, ix, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errc:
		if err != nil {
			return xerrors.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return xerrors.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
