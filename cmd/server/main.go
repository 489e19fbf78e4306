package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/pennywiseapp/pennywise/infra"
	infraprovider "github.com/pennywiseapp/pennywise/infra/provider"
	infrarepo "github.com/pennywiseapp/pennywise/infra/repository"
	"github.com/pennywiseapp/pennywise/infra/scheduler"
	"github.com/pennywiseapp/pennywise/pkg/config"
	"github.com/pennywiseapp/pennywise/pkg/eventbus"
	"github.com/pennywiseapp/pennywise/pkg/provider"
	budgetsvc "github.com/pennywiseapp/pennywise/pkg/service/budget"
	categorysvc "github.com/pennywiseapp/pennywise/pkg/service/category"
	ledgersvc "github.com/pennywiseapp/pennywise/pkg/service/ledger"
	notificationsvc "github.com/pennywiseapp/pennywise/pkg/service/notification"
	transfersvc "github.com/pennywiseapp/pennywise/pkg/service/transfer"
	"github.com/pennywiseapp/pennywise/webapi"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load(logger)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err = infra.Migrate(db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	uow := infrarepo.NewUoW(db)
	bus := eventbus.NewMemoryEventBus()

	var rates provider.ExchangeRate
	if cfg.ExchangeRate.ApiKey != "" {
		rates = infraprovider.NewExchangeRateAPIProvider(cfg.ExchangeRate, logger)
	} else {
		logger.Warn("no exchange rate API key configured, using static rates")
		rates = infraprovider.NewStaticExchangeRate(map[string]decimal.Decimal{})
	}

	budgets := budgetsvc.New(uow, bus, logger)
	ledger := ledgersvc.New(uow, budgets, logger)
	transfers := transfersvc.New(uow, rates, logger)
	categories := categorysvc.New(uow, logger)
	notifications := notificationsvc.New(uow, logger)
	notifications.SubscribeTo(bus)

	sched := scheduler.New(budgets, cfg.Scheduler, logger)
	if err = sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := webapi.SetupApp(webapi.Services{
		Ledger:        ledger,
		Transfers:     transfers,
		Budgets:       budgets,
		Categories:    categories,
		Notifications: notifications,
	})

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "env", cfg.Env, "addr", cfg.ServerAddr)
	return app.Listen(cfg.ServerAddr)
}
