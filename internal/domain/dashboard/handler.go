package dashboard

import (
	"net/http"

	"petcast-web/internal/middleware"
	"petcast-web/internal/platform/respond"
	"petcast-web/internal/session"
)

type view struct {
	Tabs  []session.Tab `json:"tabs"`
	Home  any           `json:"home"`
	Title string        `json:"title"`
}

type unauthorizer interface{ Unauthorized() bool }

func render(w http.ResponseWriter, r *http.Request, s session.Session, title string, home unauthorizer) {
	if home.Unauthorized() {
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	respond.OK(w, r, http.StatusOK, view{Tabs: s.Role.Tabs(), Home: home, Title: title})
}

// AdminHandler godoc
// @Summary Inicio del administrador
// @Tags dashboard
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router /admin [get]
func AdminHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := middleware.CurrentSession(r.Context())
		render(w, r, s, "Hola, "+s.DisplayName, svc.Admin(r.Context()))
	}
}

func VetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := middleware.CurrentSession(r.Context())
		render(w, r, s, "Hola, "+s.DisplayName, svc.Vet(r.Context(), s.UserID))
	}
}

func OwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := middleware.CurrentSession(r.Context())
		render(w, r, s, "Hola, "+s.DisplayName, svc.Owner(r.Context(), s.UserID))
	}
}
