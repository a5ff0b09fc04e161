package statistics

import (
	"net/http"

	"petcast-web/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

const msgLoad = "Error al cargar las estadísticas"

// RegisterAdminRoutes monta /statistics.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/statistics", func(sr chi.Router) {
		sr.Get("/", summaryHandler(svc))
		sr.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.Dashboard(r.Context()), msgLoad)
		})
		sr.Get("/per-month", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.PerMonth(r.Context()), msgLoad)
		})
	})
}

// summaryHandler godoc
// @Summary Resumen de la clínica
// @Tags statistics
// @Produce json
// @Success 200 {object} respond.Envelope{data=Summary}
// @Failure 502 {object} respond.Envelope
// @Router /admin/statistics [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.Summary(r.Context()), msgLoad)
	}
}
