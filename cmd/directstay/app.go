package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"directstay/internal/app/commands"
	adminapp "directstay/internal/app/handlers/admin"
	checkoutapp "directstay/internal/app/handlers/checkout"
	invoiceapp "directstay/internal/app/handlers/invoices"
	pricingapp "directstay/internal/app/handlers/pricing"
	"directstay/internal/app/middleware"
	"directstay/internal/app/outbox"
	"directstay/internal/app/policies"
	"directstay/internal/app/queries"
	"directstay/internal/app/uow"
	"directstay/internal/app/validation"
	domainlistings "directstay/internal/domain/listings"
	domainpricing "directstay/internal/domain/pricing"
	domainpromo "directstay/internal/domain/promo"
	ginserver "directstay/internal/infra/http/gin"
)

// dependencies are the adapters chosen by main for the configured storage mode.
type dependencies struct {
	Listings         domainlistings.Repository
	Rates            domainpricing.RateProvider
	Config           domainpricing.ConfigStore
	Promos           domainpromo.Repository
	UoW              uow.UoWFactory
	Idempotency      middleware.IdempotencyStore
	Outbox           outbox.Outbox
	Payments         policies.PaymentsPort
	Archive          policies.ArchivePort
	DefaultDiscounts []domainpricing.CustomDiscount
	Strategy         domainpricing.SelectionStrategy
	Logger           *slog.Logger
	Now              func() time.Time
}

type application struct {
	handlers ginserver.Handlers
	commands commands.Bus
	queries  queries.Bus
	engine   *domainpricing.Engine
}

func buildApplication(deps dependencies) application {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	validator := validation.New()
	encoder := outbox.JSONEventEncoder{}

	engine := &domainpricing.Engine{
		Rates:            deps.Rates,
		Config:           deps.Config,
		Promos:           domainpromo.Validator{Repo: deps.Promos, Now: now},
		DefaultDiscounts: deps.DefaultDiscounts,
		Strategy:         deps.Strategy,
		Logger:           logger,
	}
	quoter := pricingapp.StayQuoter{Listings: deps.Listings, Calculator: engine, Now: now}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, checkoutapp.CreateCheckoutKey, &checkoutapp.CreateCheckoutHandler{
		Quoter:   quoter,
		Payments: deps.Payments,
		Outbox:   deps.Outbox,
		Encoder:  encoder,
		Now:      now,
	})
	commands.RegisterHandler(commandBus, checkoutapp.ConfirmPaymentKey, &checkoutapp.ConfirmPaymentHandler{
		Outbox:  deps.Outbox,
		Encoder: encoder,
		Logger:  logger,
		Now:     now,
	})
	commands.RegisterHandler(commandBus, adminapp.CreatePromoKey, &adminapp.CreatePromoHandler{Now: now})
	commands.RegisterHandler(commandBus, adminapp.DeletePromoKey, adminapp.DeletePromoHandler{})
	commands.RegisterHandler(commandBus, invoiceapp.CreateInvoiceKey, &invoiceapp.CreateInvoiceHandler{
		Archive: deps.Archive,
		Logger:  logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, pricingapp.PreviewQueryKey, &pricingapp.PreviewHandler{Quoter: quoter})
	queries.RegisterHandler(queryBus, pricingapp.ValidatePromoQueryKey, &pricingapp.ValidatePromoHandler{Promos: engine.Promos})
	queries.RegisterHandler(queryBus, pricingapp.RateScheduleQueryKey, &pricingapp.RateScheduleHandler{
		Listings:  deps.Listings,
		Scheduler: engine,
	})
	queries.RegisterHandler(queryBus, adminapp.ListPromosKey, &adminapp.ListPromosHandler{UoWFactory: deps.UoW})
	queries.RegisterHandler(queryBus, invoiceapp.GetInvoiceKey, &invoiceapp.GetInvoiceHandler{UoWFactory: deps.UoW})

	logger.Debug("buses ready", "commands", commandBus.Registered(), "queries", queryBus.Registered())

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
		middleware.Validation(validator),
		middleware.Idempotency(deps.Idempotency, nil, logger),
		middleware.Transaction(deps.UoW, middleware.TxPolicy{
			Outbox:      deps.Outbox,
			MaxAttempts: 3,
			Retryable:   middleware.RetryOnBookingConflict,
		}),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
	)

	return application{
		handlers: ginserver.Handlers{
			Pricing:  ginserver.PricingHandler{Queries: queryBusWithMiddleware},
			Checkout: ginserver.CheckoutHandler{Commands: commandBusWithMiddleware},
			Admin: ginserver.AdminHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Config:   adminapp.ConfigService{Store: deps.Config, Validator: validator},
			},
			Invoice: ginserver.InvoiceHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		},
		commands: commandBusWithMiddleware,
		queries:  queryBusWithMiddleware,
		engine:   engine,
	}
}

// loadDefaultDiscounts reads the compiled-in fallback discount list; an empty path means none.
func loadDefaultDiscounts(path string, v *validation.Validator) ([]domainpricing.CustomDiscount, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read default discounts: %w", err)
	}
	var discounts []domainpricing.CustomDiscount
	if err := json.Unmarshal(raw, &discounts); err != nil {
		return nil, fmt.Errorf("decode default discounts: %w", err)
	}
	if err := v.Slice(discounts); err != nil {
		return nil, fmt.Errorf("default discounts: %w", err)
	}
	return discounts, nil
}
