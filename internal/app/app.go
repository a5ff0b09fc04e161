// Package app arma el cliente completo: storage, sesión, cache, backends,
// servicios de dominio y router. cmd/petcast solo decide qué correr.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"petcast-web/internal/adapters/clinicapi"
	"petcast-web/internal/adapters/storage/memory"
	"petcast-web/internal/adapters/storage/postgres"
	"petcast-web/internal/adapters/storage/sqlite"
	"petcast-web/internal/config"
	"petcast-web/internal/domain/appointments"
	"petcast-web/internal/domain/dashboard"
	"petcast-web/internal/domain/medicalrecords"
	"petcast-web/internal/domain/pets"
	"petcast-web/internal/domain/recovery"
	"petcast-web/internal/domain/reminders"
	"petcast-web/internal/domain/statistics"
	"petcast-web/internal/domain/users"
	"petcast-web/internal/domain/whatsapp"
	"petcast-web/internal/middleware"
	"petcast-web/internal/mutation"
	"petcast-web/internal/notify"
	"petcast-web/internal/platform/logger"
	"petcast-web/internal/platform/observability"
	"petcast-web/internal/ports/storage"
	"petcast-web/internal/querycache"
	"petcast-web/internal/router"
	"petcast-web/internal/session"
)

// Version se pisa con -ldflags en el build.
var Version = "dev"

type Options struct {
	Logger logger.Logger

	// Store reemplaza al driver configurado (tests).
	Store storage.KV
	// Transport se usa para todos los backends (tests).
	Transport http.RoundTripper
	// SkipOTel evita levantar el exporter.
	SkipOTel bool
}

type App struct {
	Config   config.Config
	Log      logger.Logger
	Store    storage.KV
	Session  *session.Manager
	Cache    *querycache.Cache
	Notes    *notify.Center
	Backend  *clinicapi.Backend
	Services router.Services
	Handler  http.Handler

	shutdown []func(context.Context) error
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = logger.New(logger.Options{
			Level:  logger.ParseLevel(cfg.LogLevel),
			Format: logger.ParseFormat(cfg.LogFormat),
			App:    cfg.AppName,
		})
	}
	a := &App{Config: cfg, Log: log}

	store := opts.Store
	if store == nil {
		var err error
		if store, err = OpenStorage(ctx, cfg.Storage); err != nil {
			return nil, err
		}
	}
	a.Store = store
	a.shutdown = append(a.shutdown, func(context.Context) error { return store.Close() })

	if cfg.OTEL.Enabled && !opts.SkipOTel {
		stop, err := observability.SetupOTel(ctx, cfg.OTEL, Version)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("app: otel: %w", err)
		}
		a.shutdown = append(a.shutdown, stop)
	}

	a.Cache = querycache.New(querycache.Options{
		StaleTime: cfg.Cache.StaleTime,
		GCTime:    cfg.Cache.GCTime,
		Retry:     cfg.Cache.Retry,
		Logger:    log,
	})
	a.Notes = notify.NewCenter(0)

	// El backend lee el token de la sesión y la sesión autentica contra el
	// backend: el manager se asigna después, los closures lo leen en cada
	// request.
	var mgr *session.Manager
	backend, err := clinicapi.New(clinicapi.Config{
		UserURL:        cfg.Backend.UserURL,
		PetURL:         cfg.Backend.PetURL,
		AppointmentURL: cfg.Backend.AppointmentURL,
		StatisticsURL:  cfg.Backend.StatisticsURL,
		Timeout:        cfg.Backend.Timeout,
		Transport:      opts.Transport,
		Token:          func(ctx context.Context) string { return mgr.AccessToken(ctx) },
		OnUnauthorized: func(ctx context.Context) { mgr.HandleUnauthorized(ctx) },
		Logger:         log,
	})
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Backend = backend

	mgr = session.NewManager(store, backend.Auth, session.Options{Logger: log})
	mgr.OnChange(func(c session.Change) {
		// Lo cacheado pertenece al usuario anterior.
		if c.To == session.StateAnonymous {
			n := len(a.Cache.Entries(querycache.Key{}))
			a.Cache.Clear()
			a.Notes.Reset()
			log.Info("session closed, client state cleared", map[string]any{"from": string(c.From), "reason": c.Reason, "entries": n})
		}
	})
	a.Session = mgr
	if err := mgr.Restore(ctx); err != nil {
		log.Warn("session restore failed", map[string]any{"error": err.Error()})
	}

	a.Services = buildServices(backend, a.Cache, mutation.NewRunner(a.Cache, a.Notes, log))

	var limiter *middleware.RateLimiter
	if cfg.LoginRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.LoginRPS, cfg.LoginBurst)
	}
	a.Handler = router.NewRouter(router.Options{
		Session:        mgr,
		Services:       a.Services,
		Cache:          a.Cache,
		Notes:          a.Notes,
		Logger:         log,
		LoginLimiter:   limiter,
		MetricsEnabled: cfg.MetricsEnabled,
		SwaggerEnabled: cfg.SwaggerEnabled,
	})
	return a, nil
}

func buildServices(b *clinicapi.Backend, cache *querycache.Cache, runner *mutation.Runner) router.Services {
	petSvc := pets.NewService(b.Pets, cache, runner)
	s := router.Services{
		Users:          users.NewService(b.Users, cache, runner),
		Pets:           petSvc,
		MedicalRecords: medicalrecords.NewService(b.MedicalRecords, cache, runner),
		Reminders:      reminders.NewService(b.Reminders, cache, runner),
		Appointments:   appointments.NewService(b.Appointments, cache, runner, petSvc),
		Statistics:     statistics.NewService(b.Statistics, cache),
		WhatsApp:       whatsapp.NewService(b.WhatsApp, cache, runner),
		Recovery:       recovery.NewService(b.Recovery, runner),
	}
	s.Dashboard = &dashboard.Service{
		Pets:           s.Pets,
		MedicalRecords: s.MedicalRecords,
		Appointments:   s.Appointments,
		Reminders:      s.Reminders,
		Statistics:     s.Statistics,
		WhatsApp:       s.WhatsApp,
	}
	return s
}

// OpenStorage abre el KV según STORAGE_DRIVER.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (storage.KV, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return memory.NewKV(), nil
	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("app: open sqlite: %w", err)
		}
		kv, err := sqlite.NewKV(db, cfg.Namespace)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case config.StoragePostgres:
		kv, err := postgres.OpenKV(ctx, cfg.DSN, cfg.Namespace)
		if err != nil {
			return nil, fmt.Errorf("app: open postgres: %w", err)
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.Driver)
	}
}

// Run sirve HTTP hasta que ctx se cancela. También corre el GC del cache.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.Config.ListenAddr,
		Handler:      a.Handler,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	go a.collect(ctx)

	errc := make(chan error, 1)
	go func() {
		a.Log.Info("starting server", map[string]any{"addr": srv.Addr, "version": Version})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Log.Info("shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

func (a *App) collect(ctx context.Context) {
	every := a.Config.Cache.GCTime / 2
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.Cache.GC(); n > 0 {
				a.Log.Debug("cache gc", map[string]any{"evicted": n})
			}
		}
	}
}

// Close libera en orden inverso (exporter, storage).
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.shutdown = nil
	return errors.Join(errs...)
}
