package router

import (
	"net/http"

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
	"petcast-web/internal/notify"
	"petcast-web/internal/platform/logger"
	"petcast-web/internal/platform/metrics"
	"petcast-web/internal/platform/respond"
	"petcast-web/internal/querycache"
	"petcast-web/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "petcast-web/docs"
)

// Services son los servicios de dominio ya construidos (ver internal/app).
type Services struct {
	Users          *users.Service
	Pets           *pets.Service
	MedicalRecords *medicalrecords.Service
	Reminders      *reminders.Service
	Appointments   *appointments.Service
	Statistics     *statistics.Service
	WhatsApp       *whatsapp.Service
	Recovery       *recovery.Service
	Dashboard      *dashboard.Service
}

type Options struct {
	Session  *session.Manager
	Services Services
	Cache    *querycache.Cache
	Notes    *notify.Center
	Logger   logger.Logger

	// Opcional: limita los POST de /login (login y recuperación).
	LoginLimiter *middleware.RateLimiter

	MetricsEnabled bool
	SwaggerEnabled bool
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	svc := opts.Services

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestIDHeader)
	r.Use(middleware.AccessLog(log))
	if opts.MetricsEnabled {
		r.Use(metrics.Middleware())
	}
	r.Use(middleware.SessionContext(opts.Session))
	r.Use(respond.Notifications(opts.Notes))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}
	if opts.SwaggerEnabled {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, opts.Session.DefaultRedirect(), http.StatusSeeOther)
	})
	r.Get(session.UnauthorizedPath, unauthorizedHandler)

	// Públicas: login, logout y recuperación de contraseña.
	r.Route(session.LoginPath, func(lr chi.Router) {
		if opts.LoginLimiter != nil {
			lr.Use(opts.LoginLimiter.Handler)
		}
		lr.Get("/", loginStatusHandler(opts.Session))
		lr.Post("/", loginHandler(opts.Session))
		if svc.Recovery != nil {
			recovery.RegisterRoutes(lr, svc.Recovery)
		}
	})
	r.Post("/logout", logoutHandler(opts.Session))

	r.Route("/api", func(ar chi.Router) {
		ar.Use(middleware.RequireAuth)
		ar.Get("/me", meHandler(opts.Session))
		ar.Get("/notifications", notificationsHandler(opts.Notes))
		ar.Get("/events", eventsHandler(opts.Cache))
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(middleware.RequireRoles(session.RoleAdmin))
		ar.Get("/", dashboard.AdminHandler(svc.Dashboard))
		users.RegisterAdminRoutes(ar, svc.Users)
		pets.RegisterAdminRoutes(ar, svc.Pets)
		appointments.RegisterAdminRoutes(ar, svc.Appointments)
		medicalrecords.RegisterAdminRoutes(ar, svc.MedicalRecords)
		reminders.RegisterAdminRoutes(ar, svc.Reminders)
		whatsapp.RegisterAdminRoutes(ar, svc.WhatsApp)
		statistics.RegisterAdminRoutes(ar, svc.Statistics)
	})

	r.Route("/vet", func(vr chi.Router) {
		vr.Use(middleware.RequireRoles(session.RoleVet))
		vr.Get("/", dashboard.VetHandler(svc.Dashboard))
		appointments.RegisterVetRoutes(vr, svc.Appointments)
		pets.RegisterVetRoutes(vr, svc.Pets)
		medicalrecords.RegisterVetRoutes(vr, svc.MedicalRecords)
	})

	r.Route("/owner", func(owr chi.Router) {
		owr.Use(middleware.RequireRoles(session.RoleOwner))
		owr.Get("/", dashboard.OwnerHandler(svc.Dashboard))
		pets.RegisterOwnerRoutes(owr, svc.Pets)
		appointments.RegisterOwnerRoutes(owr, svc.Appointments)
	})

	return r
}
