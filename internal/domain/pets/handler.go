package pets

import (
	"net/http"

	"petcast-web/internal/middleware"
	"petcast-web/internal/platform/respond"
	"petcast-web/internal/session"

	"github.com/go-chi/chi/v5"
)

const (
	msgLoadPets = "Error al cargar las mascotas"
	msgLoadPet  = "Error al cargar la mascota"
)

// RegisterAdminRoutes: CRUD completo bajo /admin/pets.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))
		pr.Get("/owner/{ownerID}", listByOwnerHandler(svc))
		pr.Get("/qr/{code}", getByQRHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

// RegisterVetRoutes: pacientes en solo lectura, más la búsqueda por QR.
func RegisterVetRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/qr/{code}", getByQRHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
	})
}

// RegisterOwnerRoutes: el dueño solo ve sus mascotas.
func RegisterOwnerRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listMyPetsHandler(svc))
		pr.Get("/{petID}", getMyPetHandler(svc))
	})
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Tags pets
// @Produce json
// @Success 200 {object} respond.Envelope{data=[]Pet}
// @Failure 502 {object} respond.Envelope
// @Router /admin/pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.List(r.Context()), msgLoadPets)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.Get(r.Context(), chi.URLParam(r, "petID")), msgLoadPet)
	}
}

func listByOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.ByOwner(r.Context(), chi.URLParam(r, "ownerID")), msgLoadPets)
	}
}

// getByQRHandler godoc
// @Summary Buscar mascota por código QR
// @Tags pets
// @Produce json
// @Param code path string true "Código QR"
// @Success 200 {object} respond.Envelope{data=Pet}
// @Failure 404 {object} respond.Envelope
// @Router /vet/pets/qr/{code} [get]
func getByQRHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.ByQR(r.Context(), chi.URLParam(r, "code")), msgLoadPet)
	}
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Datos de la mascota"
// @Success 201 {object} respond.Envelope{data=Pet}
// @Failure 400 {object} respond.Envelope
// @Router /admin/pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		p, err := svc.Create(r.Context(), in)
		if err != nil {
			respond.Error(w, r, err, "Error al registrar la mascota")
			return
		}
		respond.OK(w, r, http.StatusCreated, p)
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpdateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), in)
		if err != nil {
			respond.Error(w, r, err, "Error al actualizar la mascota")
			return
		}
		respond.OK(w, r, http.StatusOK, p)
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := svc.Delete(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			respond.Error(w, r, err, "Error al eliminar la mascota")
			return
		}
		respond.OK(w, r, http.StatusOK, map[string]string{"id": id})
	}
}

func listMyPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := middleware.CurrentSession(r.Context())
		respond.Query(w, r, svc.ByOwner(r.Context(), s.UserID), msgLoadPets)
	}
}

func getMyPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := middleware.CurrentSession(r.Context())
		st := svc.Get(r.Context(), chi.URLParam(r, "petID"))
		if st.Ok() && st.Data.OwnerID != s.UserID {
			http.Redirect(w, r, session.UnauthorizedPath, http.StatusSeeOther)
			return
		}
		respond.Query(w, r, st, msgLoadPet)
	}
}
