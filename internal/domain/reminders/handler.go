package reminders

import (
	"net/http"

	"petcast-web/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

const msgLoad = "Error al cargar los recordatorios"

// RegisterAdminRoutes monta /reminders (solo admin).
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.List(r.Context()), msgLoad)
		})
		rr.Get("/pending", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.Pending(r.Context()), msgLoad)
		})
		rr.Post("/", createHandler(svc))
		rr.Post("/process-all", processAllHandler(svc))
		rr.Get("/{reminderID}", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.Get(r.Context(), chi.URLParam(r, "reminderID")), "Error al cargar el recordatorio")
		})
		rr.Patch("/{reminderID}", updateHandler(svc))
		rr.Delete("/{reminderID}", deleteHandler(svc))
		rr.Post("/{reminderID}/send", sendHandler(svc))
	})
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		rem, err := svc.Create(r.Context(), in)
		if err != nil {
			respond.Error(w, r, err, "Error al crear el recordatorio")
			return
		}
		respond.OK(w, r, http.StatusCreated, rem)
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpdateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		rem, err := svc.Update(r.Context(), chi.URLParam(r, "reminderID"), in)
		if err != nil {
			respond.Error(w, r, err, "Error al actualizar el recordatorio")
			return
		}
		respond.OK(w, r, http.StatusOK, rem)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := svc.Delete(r.Context(), chi.URLParam(r, "reminderID"))
		if err != nil {
			respond.Error(w, r, err, "Error al eliminar el recordatorio")
			return
		}
		respond.OK(w, r, http.StatusOK, map[string]string{"id": id})
	}
}

// sendHandler godoc
// @Summary Enviar recordatorio por WhatsApp
// @Tags reminders
// @Produce json
// @Param reminderID path string true "ID del recordatorio"
// @Success 200 {object} respond.Envelope{data=Reminder}
// @Router /admin/reminders/{reminderID}/send [post]
func sendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rem, err := svc.Send(r.Context(), chi.URLParam(r, "reminderID"))
		if err != nil {
			respond.Error(w, r, err, "Error al enviar el recordatorio")
			return
		}
		respond.OK(w, r, http.StatusOK, rem)
	}
}

func processAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.ProcessAll(r.Context())
		if err != nil {
			respond.Error(w, r, err, "Error al procesar los recordatorios")
			return
		}
		respond.OK(w, r, http.StatusOK, res)
	}
}
