// Package app assembles the ledger runtime shared by the API server and the
// terminal UI from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/bye2money/internal/broadcast"
	"github.com/MrJamesThe3rd/bye2money/internal/broadcast/amqp"
	"github.com/MrJamesThe3rd/bye2money/internal/broadcast/kafka"
	"github.com/MrJamesThe3rd/bye2money/internal/config"
	"github.com/MrJamesThe3rd/bye2money/internal/database"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/export"
	"github.com/MrJamesThe3rd/bye2money/internal/format"
	"github.com/MrJamesThe3rd/bye2money/internal/importer"
	"github.com/MrJamesThe3rd/bye2money/internal/kv"
	"github.com/MrJamesThe3rd/bye2money/internal/kv/file"
	"github.com/MrJamesThe3rd/bye2money/internal/kv/memory"
	"github.com/MrJamesThe3rd/bye2money/internal/kv/postgres"
	"github.com/MrJamesThe3rd/bye2money/internal/kv/sqlite"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger/store"
)

// Consumer delivers changes made by other processes to a handler until ctx
// is done.
type Consumer interface {
	Consume(ctx context.Context, handler broadcast.Handler) error
}

type App struct {
	Config    *config.Config
	Origin    string
	Ledger    *ledger.Service
	Factory   *entry.Factory
	Importer  *importer.Service
	Export    *export.Service
	Formatter *format.Formatter

	consumers []Consumer
	listen    func(ctx context.Context) error
	closers   []func() error
}

// New opens storage and broadcast according to cfg and loads the ledger.
// A ledger that cannot be read is logged and starts empty.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:    cfg,
		Origin:    broadcast.NewOrigin(),
		Factory:   entry.NewFactory(nil),
		Formatter: format.New(cfg.App.Locale),
	}

	backing, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []ledger.Option{
		ledger.WithKey(cfg.Storage.Key),
		ledger.WithOrigin(a.Origin),
	}

	broadcaster, err := a.openBroadcast()
	if err != nil {
		a.Close()
		return nil, err
	}

	if broadcaster != nil {
		opts = append(opts, ledger.WithBroadcaster(broadcaster))
	}

	a.Ledger = ledger.NewService(store.New(backing, cfg.Storage.Key), opts...)
	a.Importer = importer.NewService(a.Factory, a.Ledger)
	a.Export = export.NewService(a.Ledger)

	// Keep new ids above whatever the ledger holds, including entries
	// written by other processes.
	a.Ledger.Subscribe(func(ledger.Change) { a.Factory.Seed(a.Ledger.MaxID()) })

	if err := a.Ledger.Load(ctx); err != nil {
		slog.Warn("starting with an empty ledger", "error", err)
	}

	slog.Info("ledger ready",
		"storage", cfg.Storage.Driver,
		"broadcast", cfg.Broadcast.Driver,
		"entries", len(a.Ledger.Entries()),
		"origin", a.Origin,
	)

	return a, nil
}

func (a *App) openStorage(ctx context.Context) (kv.Store, error) {
	cfg := a.Config

	switch cfg.Storage.Driver {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}

		a.closers = append(a.closers, s.Close)

		return s, nil
	case "postgres":
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		a.closers = append(a.closers, db.Close)

		if err := postgres.Migrate(db); err != nil {
			return nil, err
		}

		a.listen = func(ctx context.Context) error {
			return postgres.Listen(ctx, cfg.ConnectionString(), a.Origin, func(key string) {
				if err := a.Ledger.HandleExternalChange(ctx, key); err != nil {
					slog.Error("failed to reload after external change", "key", key, "error", err)
				}
			})
		}

		return postgres.New(db, a.Origin), nil
	}

	s, err := file.New(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening file storage: %w", err)
	}

	return s, nil
}

func (a *App) openBroadcast() (ledger.Broadcaster, error) {
	cfg := a.Config

	switch cfg.Broadcast.Driver {
	case "amqp":
		c, err := amqp.NewClient(cfg.Broadcast.AMQPURL, cfg.Broadcast.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("connecting to broker: %w", err)
		}

		a.closers = append(a.closers, c.Close)
		a.consumers = append(a.consumers, c)

		return c, nil
	case "kafka":
		p := kafka.NewPublisher(cfg.Broadcast.KafkaBrokers, cfg.Broadcast.KafkaTopic)
		c := kafka.NewConsumer(cfg.Broadcast.KafkaBrokers, cfg.Broadcast.KafkaTopic, a.Origin)

		a.closers = append(a.closers, p.Close, c.Close)
		a.consumers = append(a.consumers, c)

		return p, nil
	}

	return nil, nil
}

// Run delivers changes from other processes to the ledger until ctx is
// done. It returns immediately when nothing is configured to listen.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, c := range a.consumers {
		g.Go(func() error {
			return ignoreCanceled(c.Consume(ctx, a.Ledger))
		})
	}

	if a.listen != nil {
		g.Go(func() error {
			return ignoreCanceled(a.listen(ctx))
		})
	}

	return g.Wait()
}

// Close releases storage and broker connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
