package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"iget-admin/cmd/igetadmin/config"
	"iget-admin/internal/igetadmin"
	"iget-admin/internal/igetadmin/data/database"
	"iget-admin/internal/igetadmin/data/dbrepository"
	"iget-admin/internal/igetadmin/hubnet"
	"iget-admin/internal/igetadmin/igetapi"
	"iget-admin/internal/igetadmin/journal"
	"iget-admin/internal/igetadmin/orderview"
	"iget-admin/internal/igetadmin/service"
	"iget-admin/internal/igetadmin/session"
	"iget-admin/internal/igetadmin/statuscheck"
	"iget-admin/pkg/jwtfactory"
	"iget-admin/pkg/logging"
	"iget-admin/pkg/pgxstorage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	recorder, closeJournal, err := openJournal(rootCtx, cfg, logger)
	if err != nil {
		logger.ErrorCtx(rootCtx, "failed to open audit journal", zap.Error(err))
		return
	}
	defer closeJournal()
	logger.InfoCtx(rootCtx, "audit journal configured", zap.Bool("enabled", recorder.Enabled()))

	api := igetapi.New(cfg.IgetAPI, logger)
	checker := hubnet.New(cfg.Hubnet, logger)

	tokenAuth := jwtauth.New(cfg.JWTConfig.Algorithm, []byte(cfg.JWTConfig.Secret), nil)
	tokenFactory := jwtfactory.New(tokenAuth, cfg.Session.TTL)

	// Each session owns its view and its external status cache.
	newView := func(sessionID, token string) *orderview.View {
		return orderview.New(cfg.View, orderview.Deps{
			API:     api,
			Tracker: statuscheck.NewTracker(cfg.StatusCheck, checker, logger),
			Journal: recorder,
			Logger:  logger,
		}, sessionID, token)
	}
	sessions := session.NewManager(cfg.Session, api, tokenFactory, newView, logger)
	defer sessions.CloseAll()

	server := igetadmin.New(cfg.Server, tokenAuth, igetadmin.Services{
		Sessions: sessions,
		Users:    service.NewUsers(api, recorder, logger),
		Catalog:  service.NewCatalog(api, recorder, logger),
		Wallet:   service.NewWallet(api, recorder, logger),
		Orders:   service.NewOrders(api, recorder, logger),
		Journal:  recorder,
	}, logger)

	if err := run(rootCtx, cfg, server, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

// openJournal connects the audit journal when a DSN is configured and returns
// a disabled recorder otherwise.
func openJournal(ctx context.Context, cfg *config.Config, logger *logging.ZapLogger) (*journal.Recorder, func(), error) {
	if !cfg.JournalEnabled() {
		return journal.NewRecorder(nil, logger), func() {}, nil
	}

	dbFactory := database.NewPgxDatabaseFactory(cfg.DB, logger)
	storage, err := pgxstorage.New(ctx, dbFactory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create journal storage: %w", err)
	}
	transactionManager := pgxstorage.NewTransactionsManager(storage)
	repository := dbrepository.New(storage, transactionManager, logger)
	return journal.NewRecorder(repository, logger), storage.Close, nil
}

func run(rootCtx context.Context, cfg *config.Config, server *igetadmin.Server, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.ShutdownTimeout*2)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		logger.InfoCtx(ctx, "Server started", zap.String("address", cfg.Server.ServerAddress))
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
