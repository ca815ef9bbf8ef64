// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server, and handles graceful shutdown
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/edmw/wishlist-sub003/internal/adapters/http"
	"github.com/edmw/wishlist-sub003/internal/adapters/http/handlers"
	"github.com/edmw/wishlist-sub003/internal/adapters/http/middleware"

	"github.com/edmw/wishlist-sub003/internal/adapters/clients/acl"
	"github.com/edmw/wishlist-sub003/internal/adapters/events"
	"github.com/edmw/wishlist-sub003/internal/adapters/memory"
	"github.com/edmw/wishlist-sub003/internal/app/action"
	"github.com/edmw/wishlist-sub003/internal/app/favorites"
	"github.com/edmw/wishlist-sub003/internal/app/invitations"
	"github.com/edmw/wishlist-sub003/internal/app/items"
	"github.com/edmw/wishlist-sub003/internal/app/lists"
	"github.com/edmw/wishlist-sub003/internal/app/notifications"
	"github.com/edmw/wishlist-sub003/internal/app/welcome"
	"github.com/edmw/wishlist-sub003/internal/app/wishlist"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/config"
	"github.com/edmw/wishlist-sub003/internal/platform/health"
	"github.com/edmw/wishlist-sub003/internal/platform/httpclient"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
	"github.com/edmw/wishlist-sub003/internal/platform/telemetry"
	"github.com/edmw/wishlist-sub003/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(do.MustInvokeNamed[*httpclient.Client](injector, clientPushover))
	registry.Register(do.MustInvokeNamed[*httpclient.Client](injector, clientMail))

	store := do.MustInvoke[*memory.Store](injector)
	if err := seedUsers(ctx, store.Users, cfg.Seed.Users); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	itemToken := store.Items.Subscribe(events.StoreChanges(logger, "item",
		func(it item.Item) string { return it.ID.String() }))
	defer store.Items.Unsubscribe(itemToken)
	listToken := store.Lists.Subscribe(events.StoreChanges(logger, "list",
		func(l list.List) string { return l.ID.String() }))
	defer store.Lists.Unsubscribe(listToken)

	// SIGINT or SIGTERM stops the server; Run drains in-flight requests.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := server.Run(sigCtx)

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	if runErr != nil {
		return fmt.Errorf("running server: %w", runErr)
	}
	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

// Named providers of the outbound HTTP clients.
const (
	clientPushover = "pushover"
	clientMail     = "mail"
)

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	// Outbound providers.
	do.ProvideNamed(injector, clientPushover, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Clients.Pushover.ClientConfig, clientPushover, metrics, logger), nil
	})

	do.ProvideNamed(injector, clientMail, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Clients.Mail.ClientConfig, clientMail, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*acl.MailClient, error) {
		client := do.MustInvokeNamed[*httpclient.Client](i, clientMail)
		return acl.NewMailClient(client, cfg.Clients.Mail.Sender, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.EmailSendingProvider, error) {
		return do.MustInvoke[*acl.MailClient](i), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.NotificationSendingProvider, error) {
		client := do.MustInvokeNamed[*httpclient.Client](i, clientPushover)
		mail := do.MustInvoke[*acl.MailClient](i)
		return acl.NewNotificationClient(client, cfg.Clients.Pushover.Token, mail, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.ImageStoreProvider, error) {
		return memory.NewImageStore(cfg.Images.BaseURL), nil
	})

	// Storage and shared action services.
	do.Provide(injector, func(_ do.Injector) (*memory.Store, error) {
		return memory.New(time.Now), nil
	})

	do.Provide(injector, func(i do.Injector) (*action.Performer, error) {
		return action.NewPerformer(do.MustInvoke[*telemetry.Metrics](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*action.Recorder, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return action.NewRecorder(events.NewRecorder(metrics), events.NewMessageLog(logger)), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(health.WithCheckTimeout(cfg.Server.HealthCheckTimeout)), nil
	})

	registerActors(injector, cfg)
	registerHandlers(injector)

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return adapthttp.NewRouter(adapthttp.Handlers{
			Health:        do.MustInvoke[*handlers.HealthHandler](i),
			Welcome:       do.MustInvoke[*handlers.WelcomeHandler](i),
			Wishlist:      do.MustInvoke[*handlers.WishlistHandler](i),
			Lists:         do.MustInvoke[*handlers.ListsHandler](i),
			Items:         do.MustInvoke[*handlers.ItemsHandler](i),
			Favorites:     do.MustInvoke[*handlers.FavoritesHandler](i),
			Invitations:   do.MustInvoke[*handlers.InvitationsHandler](i),
			Notifications: do.MustInvoke[*handlers.NotificationsHandler](i),
		}, middleware.Pipeline(logger, metrics, cfg.Server.RequestTimeout)...), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger, adapthttp.WithDrainTimeout(serverShutdownTimeout)), nil
	})
}

func registerActors(injector *do.RootScope, cfg *config.Config) {
	workers := cfg.Actions.FanoutWorkers

	do.Provide(injector, func(i do.Injector) (*welcome.Actor, error) {
		store := do.MustInvoke[*memory.Store](i)
		return welcome.NewActor(welcome.Deps{
			Users:     store.Users,
			Lists:     store.Lists,
			Items:     store.Items,
			Favorites: store.Favorites,
			Performer: do.MustInvoke[*action.Performer](i),
			Workers:   workers,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*wishlist.Actor, error) {
		store := do.MustInvoke[*memory.Store](i)
		return wishlist.NewActor(wishlist.Deps{
			Users:        store.Users,
			Lists:        store.Lists,
			Items:        store.Items,
			Reservations: store.Reservations,
			Favorites:    store.Favorites,
			Performer:    do.MustInvoke[*action.Performer](i),
			Recorder:     do.MustInvoke[*action.Recorder](i),
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*items.ImageCleaner, error) {
		return items.NewImageCleaner(do.MustInvoke[ports.ImageStoreProvider](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*lists.Actor, error) {
		store := do.MustInvoke[*memory.Store](i)
		return lists.NewActor(lists.Deps{
			Users:        store.Users,
			Lists:        store.Lists,
			Items:        store.Items,
			Reservations: store.Reservations,
			Favorites:    store.Favorites,
			Performer:    do.MustInvoke[*action.Performer](i),
			Recorder:     do.MustInvoke[*action.Recorder](i),
			Cleaner:      do.MustInvoke[*items.ImageCleaner](i),
			Workers:      workers,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*items.Actor, error) {
		store := do.MustInvoke[*memory.Store](i)
		return items.NewActor(items.Deps{
			Users:        store.Users,
			Lists:        store.Lists,
			Items:        store.Items,
			Reservations: store.Reservations,
			Favorites:    store.Favorites,
			Performer:    do.MustInvoke[*action.Performer](i),
			Recorder:     do.MustInvoke[*action.Recorder](i),
			Cleaner:      do.MustInvoke[*items.ImageCleaner](i),
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*favorites.Actor, error) {
		store := do.MustInvoke[*memory.Store](i)
		return favorites.NewActor(favorites.Deps{
			Users:     store.Users,
			Lists:     store.Lists,
			Items:     store.Items,
			Favorites: store.Favorites,
			Performer: do.MustInvoke[*action.Performer](i),
			Recorder:  do.MustInvoke[*action.Recorder](i),
			Workers:   workers,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*invitations.Actor, error) {
		store := do.MustInvoke[*memory.Store](i)
		return invitations.NewActor(invitations.Deps{
			Users:       store.Users,
			Invitations: store.Invitations,
			Performer:   do.MustInvoke[*action.Performer](i),
			Recorder:    do.MustInvoke[*action.Recorder](i),
			CodeLength:  cfg.Actions.InvitationCodeLength,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*notifications.Actor, error) {
		store := do.MustInvoke[*memory.Store](i)
		return notifications.NewActor(notifications.Deps{
			Users:     store.Users,
			Performer: do.MustInvoke[*action.Performer](i),
			Recorder:  do.MustInvoke[*action.Recorder](i),
		}), nil
	})
}

func registerHandlers(injector *do.RootScope) {
	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		return handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.WelcomeHandler, error) {
		return handlers.NewWelcomeHandler(do.MustInvoke[*welcome.Actor](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.WishlistHandler, error) {
		return handlers.NewWishlistHandler(do.MustInvoke[*wishlist.Actor](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ListsHandler, error) {
		return handlers.NewListsHandler(do.MustInvoke[*lists.Actor](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ItemsHandler, error) {
		return handlers.NewItemsHandler(
			do.MustInvoke[*items.Actor](i),
			do.MustInvoke[ports.ImageStoreProvider](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.FavoritesHandler, error) {
		return handlers.NewFavoritesHandler(do.MustInvoke[*favorites.Actor](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.InvitationsHandler, error) {
		return handlers.NewInvitationsHandler(
			do.MustInvoke[*invitations.Actor](i),
			do.MustInvoke[ports.EmailSendingProvider](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.NotificationsHandler, error) {
		return handlers.NewNotificationsHandler(
			do.MustInvoke[*notifications.Actor](i),
			do.MustInvoke[ports.NotificationSendingProvider](i),
		), nil
	})
}

// seedUsers creates the configured users unless a user with the same
// identification exists.
func seedUsers(ctx context.Context, users ports.UserRepository, seeds []config.SeedUser) error {
	for _, s := range seeds {
		id, err := user.ParseID(s.ID)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", s.Identification, err)
		}
		if _, err := users.FindByIdentification(ctx, s.Identification); err == nil {
			continue
		}
		if _, err := users.Create(ctx, &user.User{
			ID:             id,
			Identification: s.Identification,
			FullName:       s.FullName,
			Email:          s.Email,
			Confidant:      s.Confidant,
			Settings:       user.Settings{Notifications: user.Notifications{EmailEnabled: s.Email != ""}},
		}); err != nil {
			return fmt.Errorf("seed user %q: %w", s.Identification, err)
		}
	}
	return nil
}
