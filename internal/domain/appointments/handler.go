package appointments

import (
	"fmt"
	"net/http"
	"time"

	"petcast-web/internal/middleware"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/platform/respond"
	"petcast-web/internal/session"

	"github.com/go-chi/chi/v5"
)

const (
	msgLoadList = "Error al cargar las citas"
	msgLoadOne  = "Error al cargar la cita"
)

// createRequest acepta dateTime (RFC3339) o date + time del formulario.
type createRequest struct {
	PetID    string `json:"petId"`
	OwnerID  string `json:"ownerId"`
	VetID    string `json:"vetId"`
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes"`
}

func (req createRequest) toInput() (CreateInput, error) {
	in := CreateInput{PetID: req.PetID, OwnerID: req.OwnerID, VetID: req.VetID, Reason: req.Reason, Notes: req.Notes}
	if req.DateTime != "" {
		t, err := time.Parse(time.RFC3339, req.DateTime)
		if err != nil {
			return in, fmt.Errorf("%w: dateTime debe ser RFC3339", apierror.ErrInvalidInput)
		}
		in.DateTime = t
		return in, nil
	}
	t, err := CombineDateTime(req.Date, req.Time, time.Local)
	if err != nil {
		return in, fmt.Errorf("%w: %s", apierror.ErrInvalidInput, err.Error())
	}
	in.DateTime = t
	return in, nil
}

// RegisterAdminRoutes: agenda completa con filtros y transiciones.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", listHandler(svc))
		ar.Post("/", createHandler(svc, false))
		ar.Get("/today", todayHandler(svc))
		ar.Get("/pet/{petID}", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.ByPet(r.Context(), chi.URLParam(r, "petID")), msgLoadList)
		})
		ar.Get("/owner/{ownerID}", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.ByOwner(r.Context(), chi.URLParam(r, "ownerID")), msgLoadList)
		})
		ar.Get("/vet/{vetID}", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.ByVet(r.Context(), chi.URLParam(r, "vetID")), msgLoadList)
		})
		ar.Get("/{appointmentID}", getHandler(svc))
		ar.Patch("/{appointmentID}", updateHandler(svc))
		ar.Delete("/{appointmentID}", deleteHandler(svc))
		ar.Post("/{appointmentID}/{action}", transitionHandler(svc))
	})
}

// RegisterVetRoutes: la agenda del vet logueado más las de hoy.
func RegisterVetRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", func(w http.ResponseWriter, r *http.Request) {
			s, _ := middleware.CurrentSession(r.Context())
			respond.Query(w, r, svc.ByVet(r.Context(), s.UserID), msgLoadList)
		})
		ar.Get("/today", todayHandler(svc))
		ar.Get("/pet/{petID}", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.ByPet(r.Context(), chi.URLParam(r, "petID")), msgLoadList)
		})
		ar.Get("/{appointmentID}", getHandler(svc))
		ar.Patch("/{appointmentID}", updateHandler(svc))
		ar.Post("/{appointmentID}/{action}", transitionHandler(svc))
	})
}

// RegisterOwnerRoutes: el dueño ve, pide y cancela sus propias citas.
func RegisterOwnerRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", func(w http.ResponseWriter, r *http.Request) {
			s, _ := middleware.CurrentSession(r.Context())
			respond.Query(w, r, svc.ByOwner(r.Context(), s.UserID), msgLoadList)
		})
		ar.Post("/", createHandler(svc, true))
		ar.Get("/{appointmentID}", ownGuard(svc, getHandler(svc)))
		ar.Post("/{appointmentID}/cancel", ownGuard(svc, func(w http.ResponseWriter, r *http.Request) {
			a, err := svc.Cancel(r.Context(), chi.URLParam(r, "appointmentID"))
			if err != nil {
				respond.Error(w, r, err, "Error al cancelar la cita")
				return
			}
			respond.OK(w, r, http.StatusOK, a)
		}))
	})
}

// ownGuard deja pasar solo si la cita es del dueño logueado.
func ownGuard(svc *Service, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := middleware.CurrentSession(r.Context())
		st := svc.Get(r.Context(), chi.URLParam(r, "appointmentID"))
		if st.Err != nil {
			respond.Query(w, r, st, msgLoadOne)
			return
		}
		if st.Data.OwnerID != s.UserID {
			http.Redirect(w, r, session.UnauthorizedPath, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// listHandler godoc
// @Summary Listar citas
// @Description Con ?status=SCHEDULED|CONFIRMED|COMPLETED|CANCELLED filtra por estado.
// @Tags appointments
// @Produce json
// @Param status query string false "Estado"
// @Success 200 {object} respond.Envelope{data=[]Appointment}
// @Router /admin/appointments [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st := Status(r.URL.Query().Get("status")); st != "" {
			if !st.Valid() {
				respond.Error(w, r, fmt.Errorf("%w: estado %q inválido", apierror.ErrInvalidInput, st), "")
				return
			}
			respond.Query(w, r, svc.ByStatus(r.Context(), st), msgLoadList)
			return
		}
		respond.Query(w, r, svc.List(r.Context()), msgLoadList)
	}
}

func todayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.Today(r.Context()), msgLoadList)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.Get(r.Context(), chi.URLParam(r, "appointmentID")), msgLoadOne)
	}
}

// createHandler: con asOwner el ownerId sale de la sesión, no del body.
func createHandler(svc *Service, asOwner bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		if asOwner {
			s, _ := middleware.CurrentSession(r.Context())
			req.OwnerID = s.UserID
		}
		in, err := req.toInput()
		if err != nil {
			respond.Error(w, r, err, "")
			return
		}
		a, err := svc.Create(r.Context(), in)
		if err != nil {
			respond.Error(w, r, err, "Error al agendar la cita")
			return
		}
		respond.OK(w, r, http.StatusCreated, a)
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpdateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		a, err := svc.Update(r.Context(), chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			respond.Error(w, r, err, "Error al actualizar la cita")
			return
		}
		respond.OK(w, r, http.StatusOK, a)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := svc.Delete(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			respond.Error(w, r, err, "Error al eliminar la cita")
			return
		}
		respond.OK(w, r, http.StatusOK, map[string]string{"id": id})
	}
}

// transitionHandler godoc
// @Summary Cambiar estado de una cita
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Param action path string true "confirm | complete | cancel"
// @Success 200 {object} respond.Envelope{data=Appointment}
// @Failure 400 {object} respond.Envelope
// @Router /vet/appointments/{appointmentID}/{action} [post]
func transitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := Transition(chi.URLParam(r, "action"))
		if !t.Valid() {
			respond.Error(w, r, fmt.Errorf("%w: acción %q desconocida", apierror.ErrInvalidInput, t), "")
			return
		}
		a, err := svc.apply(r.Context(), chi.URLParam(r, "appointmentID"), t)
		if err != nil {
			respond.Error(w, r, err, transitionMessages[t][1])
			return
		}
		respond.OK(w, r, http.StatusOK, a)
	}
}
