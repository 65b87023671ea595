package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/application/orchestration"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/config"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/transport"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/eventbus"
	httpapi "github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/outbox"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/persistence/sqlite"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/resilience"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/threeds"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "billergw",
		Short: "Payment transaction gateway",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the sqlite schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.New(), cfgFile)
			if err != nil {
				return err
			}

			db, err := sqlite.Open(cfg.Storage.SQLitePath)
			if err != nil {
				return err
			}
			defer db.Close()

			return sqlite.RunMigrations(db)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the transaction gateway HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.New(), cfgFile)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg config.Config) error {
	logger, err := logging.NewProduction()
	if err != nil {
		return err
	}
	counters := &metrics.Counters{}

	db, err := sqlite.Open(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.RunMigrations(db); err != nil {
		return err
	}

	breakerStore := sqlite.NewBreakerStore(db)
	breaker := resilience.NewBreaker(breakerStore, resilience.Settings{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		Cooldown:         cfg.Breaker.Cooldown,
		ProbeCount:       cfg.Breaker.ProbeCount,
		SuccessesToClose: cfg.Breaker.SuccessesToClose,
	})

	factory := billers.NewFactory(
		transport.NewHTTPSender(cfg.CallTimeout),
		breaker,
		billers.Endpoints{
			Rocketgate: cfg.Billers.Rocketgate,
			Netbilling: cfg.Billers.Netbilling,
			Pumapay:    cfg.Billers.Pumapay,
			Qysso:      cfg.Billers.Qysso,
			Epoch:      cfg.Billers.Epoch,
			Legacy:     cfg.Billers.Legacy,
		},
	)

	service := &orchestration.Service{
		UoW:     sqlite.NewUnitOfWork(db),
		Billers: factory,
		ThreeDS: &threeds.Controller{},
		Logger:  logger,
		Metrics: counters,
	}

	bus := eventbus.NewInMemoryBus()
	for _, typ := range []event.Type{
		event.ChargeTransactionCreated,
		event.RebillUpdateTransactionCreated,
		event.TransactionUpdated,
	} {
		t := typ
		bus.Subscribe(t, func(evt event.Event) error {
			fields := map[string]any{"type": string(t)}
			if p, ok := evt.Payload.(event.TransactionPayload); ok {
				fields["transaction_id"] = p.TransactionID
				fields["state"] = p.TransactionState
			}
			logger.Info("event published", fields)
			return nil
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := &outbox.Dispatcher{
		Repo:         outbox.NewSQLiteRepository(db),
		EventBus:     bus,
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
	}
	go dispatcher.Run(ctx)

	handler := &httpapi.TransactionHandler{
		Service: service,
		Health:  &resilience.HealthAggregator{Store: breakerStore},
	}

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", map[string]any{"addr": cfg.HTTP.Addr})
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
