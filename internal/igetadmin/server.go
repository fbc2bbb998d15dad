package igetadmin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"iget-admin/internal/igetadmin/handlers"
	"iget-admin/internal/igetadmin/middleware"
	"iget-admin/pkg/logging"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
}

// Services bundles everything the router dispatches to.
type Services struct {
	Sessions interface {
		handlers.SessionManager
		handlers.SessionCounter
		middleware.SessionStore
	}
	Users   handlers.UsersService
	Catalog handlers.CatalogService
	Wallet  handlers.WalletService
	Orders  handlers.OrdersService
	Journal interface {
		handlers.JournalReader
		handlers.JournalPinger
	}
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func New(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           createMux(tokenAuth, services, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(tokenAuth *jwtauth.JWTAuth, services Services, logger *logging.ZapLogger) *chi.Mux {
	sessionHandler := handlers.NewSessionHandler(services.Sessions, logger)
	viewHandler := handlers.NewOrdersViewHandler(logger)
	exportHandler := handlers.NewExportHandler(services.Orders, logger)
	usersHandler := handlers.NewUsersHandler(services.Users, logger)
	catalogHandler := handlers.NewCatalogHandler(services.Catalog, logger)
	walletHandler := handlers.NewWalletHandler(services.Wallet, logger)
	ordersHandler := handlers.NewOrdersHandler(services.Orders, logger)
	journalHandler := handlers.NewJournalHandler(services.Journal, logger)
	healthHandler := handlers.NewHealthHandler(services.Sessions, services.Journal, logger)

	loggerContext := middleware.NewLoggerContext()
	panicRecover := middleware.NewPanicRecover(logger)
	sessionLoader := middleware.NewSessionLoader(services.Sessions, logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(loggerContext.CreateHandler)
	router.Use(panicRecover.CreateHandler)

	router.Route("/api", func(router chi.Router) {
		router.Get("/health", healthHandler.ServeHTTP)
		router.Post("/session", sessionHandler.Open)

		router.Group(func(router chi.Router) {
			router.Use(jwtauth.Verifier(tokenAuth))
			router.Use(jwtauth.Authenticator(tokenAuth))
			router.Use(sessionLoader.CreateHandler)

			router.Get("/session", sessionHandler.Get)
			router.Post("/session/refresh", sessionHandler.Refresh)
			router.Put("/session/theme", sessionHandler.SetTheme)
			router.Delete("/session", sessionHandler.Close)

			router.Route("/view/orders", func(router chi.Router) {
				router.Get("/", viewHandler.Snapshot)
				router.Post("/load", viewHandler.Load)
				router.Post("/load-more", viewHandler.LoadMore)
				router.Put("/filter", viewHandler.ApplyFilter)
				router.Delete("/filter", viewHandler.ResetFilter)
				router.Put("/search", viewHandler.Search)
				router.Post("/exclusions", viewHandler.ToggleExclusion)
				router.Put("/selection", viewHandler.Select)
				router.Delete("/selection", viewHandler.ClearSelection)
				router.Post("/bulk-status", viewHandler.BulkStatus)
				router.Post("/external-check", viewHandler.CheckDisplayed)
				router.Delete("/notice", viewHandler.DismissNotice)
				router.Put("/{id}/status", viewHandler.UpdateStatus)
				router.Post("/{id}/external-check", viewHandler.CheckExternal)
			})

			router.Route("/export", func(router chi.Router) {
				router.Get("/orders.xlsx", exportHandler.OrdersXLSX)
				router.Get("/afa.csv", exportHandler.AfaCSV)
			})

			router.Route("/admin/users", func(router chi.Router) {
				router.Get("/", usersHandler.List)
				router.Post("/bulk-approve", usersHandler.BulkApprove)
				router.Post("/{id}/approve", usersHandler.Approve)
				router.Post("/{id}/reject", usersHandler.Reject)
				router.Patch("/{id}/role", usersHandler.ChangeRole)
				router.Patch("/{id}/status", usersHandler.ToggleStatus)
				router.Post("/{id}/wallet/deposit", usersHandler.Deposit)
				router.Post("/{id}/wallet/debit", usersHandler.Debit)
			})

			router.Route("/catalog/bundles", func(router chi.Router) {
				router.Get("/", catalogHandler.Bundles)
				router.Get("/type/{type}", catalogHandler.Bundles)
				router.Put("/{id}/pricing", catalogHandler.UpdatePricing)
				router.Post("/{id}/stock", catalogHandler.ChangeStock)
				router.Get("/{id}/stock/history", catalogHandler.StockHistory)
			})

			router.Route("/network", func(router chi.Router) {
				router.Get("/", catalogHandler.Networks)
				router.Post("/initialize", catalogHandler.InitializeNetworks)
				router.Put("/{network}", catalogHandler.SetNetworkAvailability)
			})

			router.Route("/wallet", func(router chi.Router) {
				router.Get("/balance", walletHandler.Balance)
				router.Get("/banks", walletHandler.Banks)
				router.Post("/verify-account", walletHandler.VerifyAccount)
				router.Post("/withdraw", walletHandler.Withdraw)
			})

			router.Route("/afa", func(router chi.Router) {
				router.Get("/", ordersHandler.AfaRegistrations)
				router.Post("/", ordersHandler.RegisterAfa)
			})

			router.Post("/orders/place", ordersHandler.Place)
			router.Get("/journal", journalHandler.List)
		})
	})

	return router
}
