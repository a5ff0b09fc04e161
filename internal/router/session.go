package router

import (
	"errors"
	"net/http"
	"strings"

	"petcast-web/internal/middleware"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/platform/respond"
	"petcast-web/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionView struct {
	State       session.State    `json:"state"`
	Session     *session.Session `json:"session,omitempty"`
	Tabs        []session.Tab    `json:"tabs,omitempty"`
	DefaultPath string           `json:"defaultPath"`
	Error       string           `json:"error,omitempty"`
}

func viewOf(m *session.Manager) sessionView {
	v := sessionView{State: m.State(), DefaultPath: m.DefaultRedirect(), Error: m.LastError()}
	if s, ok := m.Current(); ok {
		v.Session = &s
		v.Tabs = s.Role.Tabs()
		v.Error = ""
	}
	return v
}

// loginStatusHandler godoc
// @Summary Estado del login
// @Description Devuelve el estado de la sesión y el error del último intento fallido.
// @Tags auth
// @Produce json
// @Success 200 {object} respond.Envelope{data=sessionView}
// @Router /login [get]
func loginStatusHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, r, http.StatusOK, viewOf(m))
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credenciales"
// @Success 200 {object} respond.Envelope{data=sessionView}
// @Failure 401 {object} respond.Envelope
// @Failure 429 {object} respond.Envelope
// @Router /login [post]
func loginHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			respond.JSON(w, http.StatusBadRequest, respond.Envelope{Error: "Email y contraseña son obligatorios"})
			return
		}

		_, err := m.Login(r.Context(), session.Credentials{Email: req.Email, Password: req.Password})
		switch {
		case err == nil:
			respond.OK(w, r, http.StatusOK, viewOf(m))
		case errors.Is(err, session.ErrInvalidCredentials):
			respond.JSON(w, http.StatusUnauthorized, respond.Envelope{Error: loginMessage(err)})
		case errors.Is(err, session.ErrLoginInProgress):
			respond.JSON(w, http.StatusConflict, respond.Envelope{Error: "Ya hay un inicio de sesión en curso"})
		case errors.Is(err, session.ErrUnknownRole):
			respond.JSON(w, http.StatusForbidden, respond.Envelope{Error: "Tu usuario no tiene un rol habilitado"})
		default:
			respond.JSON(w, apierror.HTTPStatus(err), respond.Envelope{Error: apierror.Normalize(err, "Error al iniciar sesión").Message})
		}
	}
}

// loginMessage prefiere el mensaje del user-service ("Usuario no encontrado"...).
func loginMessage(err error) string {
	if msg := apierror.Normalize(err, "").Message; msg != "" {
		return msg
	}
	return "Credenciales inválidas"
}

func logoutHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = m.Logout(r.Context())
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
	}
}

func unauthorizedHandler(w http.ResponseWriter, r *http.Request) {
	home := session.LoginPath
	if s, ok := middleware.CurrentSession(r.Context()); ok {
		home = s.Role.DefaultPath()
	}
	respond.JSON(w, http.StatusForbidden, respond.Envelope{
		Error: "No tienes permiso para ver esta página",
		Data:  map[string]string{"home": home},
	})
}

// meHandler godoc
// @Summary Sesión actual y pestañas del rol
// @Tags auth
// @Produce json
// @Success 200 {object} respond.Envelope{data=sessionView}
// @Router /api/me [get]
func meHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, r, http.StatusOK, viewOf(m))
	}
}
