package medicalrecords

import (
	"net/http"

	"petcast-web/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

const msgLoad = "Error al cargar las fichas médicas"

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/medical-records", func(mr chi.Router) {
		mountCommon(mr, svc)
		mr.Delete("/{recordID}", deleteHandler(svc))
	})
}

// RegisterVetRoutes: el vet registra y corrige consultas, no las borra.
func RegisterVetRoutes(r chi.Router, svc *Service) {
	r.Route("/medical-records", func(mr chi.Router) {
		mountCommon(mr, svc)
	})
}

func mountCommon(mr chi.Router, svc *Service) {
	mr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.List(r.Context()), msgLoad)
	})
	mr.Post("/", createHandler(svc))
	mr.Get("/pet/{petID}", byPetHandler(svc))
	mr.Get("/pet/{petID}/latest", func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.Latest(r.Context(), chi.URLParam(r, "petID")), msgLoad)
	})
	mr.Get("/{recordID}", func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.Get(r.Context(), chi.URLParam(r, "recordID")), "Error al cargar la ficha médica")
	})
	mr.Patch("/{recordID}", updateHandler(svc))
}

// byPetHandler godoc
// @Summary Historial clínico de una mascota
// @Description Ordenado por fecha de consulta, la más reciente primero.
// @Tags medical-records
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} respond.Envelope{data=[]Record}
// @Router /vet/medical-records/pet/{petID} [get]
func byPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.ByPet(r.Context(), chi.URLParam(r, "petID")), msgLoad)
	}
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		rec, err := svc.Create(r.Context(), in)
		if err != nil {
			respond.Error(w, r, err, "Error al crear la ficha médica")
			return
		}
		respond.OK(w, r, http.StatusCreated, rec)
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpdateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		rec, err := svc.Update(r.Context(), chi.URLParam(r, "recordID"), in)
		if err != nil {
			respond.Error(w, r, err, "Error al actualizar la ficha médica")
			return
		}
		respond.OK(w, r, http.StatusOK, rec)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := svc.Delete(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			respond.Error(w, r, err, "Error al eliminar la ficha médica")
			return
		}
		respond.OK(w, r, http.StatusOK, map[string]string{"id": id})
	}
}
