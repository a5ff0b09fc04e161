package users

import (
	"context"
	"net/http"

	"petcast-web/internal/platform/respond"
	"petcast-web/internal/querycache"

	"github.com/go-chi/chi/v5"
)

// RegisterAdminRoutes monta /users (todos, solo lectura), /owners y /vets.
// Solo el admin gestiona personas.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", listHandler(svc.List, "Error al cargar los usuarios"))
		ur.Get("/{userID}", getHandler(svc))
	})
	r.Route("/owners", func(or chi.Router) {
		or.Get("/", listHandler(svc.Owners, "Error al cargar los dueños"))
		or.Post("/", createHandler(svc.CreateOwner, "Error al crear el dueño"))
		or.Get("/{userID}", getHandler(svc))
		or.Patch("/{userID}", updateHandler(svc.UpdateOwner, "Error al actualizar el dueño"))
		or.Delete("/{userID}", deleteHandler(svc.DeleteOwner, "Error al eliminar el dueño"))
	})
	r.Route("/vets", func(vr chi.Router) {
		vr.Get("/", listHandler(svc.Vets, "Error al cargar los veterinarios"))
		vr.Post("/", createHandler(svc.CreateVet, "Error al crear el veterinario"))
		vr.Get("/{userID}", getHandler(svc))
		vr.Patch("/{userID}", updateHandler(svc.UpdateVet, "Error al actualizar el veterinario"))
		vr.Delete("/{userID}", deleteHandler(svc.DeleteVet, "Error al eliminar el veterinario"))
	})
}

// listHandler godoc
// @Summary Listar dueños
// @Tags users
// @Produce json
// @Success 200 {object} respond.Envelope{data=[]User}
// @Failure 502 {object} respond.Envelope
// @Router /admin/owners [get]
func listHandler(read func(context.Context) querycache.State[[]User], fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, read(r.Context()), fallback)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Query(w, r, svc.Get(r.Context(), chi.URLParam(r, "userID")), "Error al cargar el usuario")
	}
}

// createHandler godoc
// @Summary Crear dueño
// @Description La contraseña es obligatoria.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Datos del dueño"
// @Success 201 {object} respond.Envelope{data=User}
// @Failure 400 {object} respond.Envelope
// @Router /admin/owners [post]
func createHandler(create func(context.Context, CreateInput) (User, error), fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		u, err := create(r.Context(), in)
		if err != nil {
			respond.Error(w, r, err, fallback)
			return
		}
		respond.OK(w, r, http.StatusCreated, u)
	}
}

func updateHandler(update func(context.Context, string, UpdateInput) (User, error), fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpdateInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		u, err := update(r.Context(), chi.URLParam(r, "userID"), in)
		if err != nil {
			respond.Error(w, r, err, fallback)
			return
		}
		respond.OK(w, r, http.StatusOK, u)
	}
}

func deleteHandler(remove func(context.Context, string) (string, error), fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := remove(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			respond.Error(w, r, err, fallback)
			return
		}
		respond.OK(w, r, http.StatusOK, map[string]string{"id": id})
	}
}
