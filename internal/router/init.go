package router

import (
	"github.com/shopspring/decimal"

	"github.com/mfalcone/stockx/internal/application"
	"github.com/mfalcone/stockx/internal/container"
	pginfra "github.com/mfalcone/stockx/internal/infrastructure/postgres"
	handlers "github.com/mfalcone/stockx/internal/interface/http"
	"github.com/mfalcone/stockx/internal/router/modules"
)

// InitModules wires the feature modules from the container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	startingCash, err := decimal.NewFromString(cfg.StartingCash)
	if err != nil {
		logger.WithError(err).Warn("invalid STARTING_CASH, defaulting to 10000")
		startingCash = decimal.NewFromInt(10000)
	}

	users := pginfra.NewUserRepository(container.GetPGPool())
	ledger := pginfra.NewLedgerRepository(container.GetPGPool())
	quotes := container.GetQuotes()

	userSvc := application.NewUserService(users, container.GetJWT(), container.GetRedis(), logger, startingCash)
	tradingSvc := application.NewTradingService(users, ledger, quotes, container.GetRabbitPub(), container.GetES(), cfg.ESLedgerIndex, logger)
	portfolioSvc := application.NewPortfolioService(ledger, quotes, startingCash, logger)

	authHandler := handlers.NewAuthHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	tradingHandler := handlers.NewTradingHandler(tradingSvc, logger)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewTradingModule(tradingHandler, container.GetJWT()))
	r.Add(modules.NewPortfolioModule(portfolioHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
