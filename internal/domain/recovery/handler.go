package recovery

import (
	"net/http"

	"petcast-web/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

type phoneRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code,omitempty"`
}

// RegisterRoutes monta /recovery; son rutas públicas, el router les pone rate limit.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/recovery", func(rr chi.Router) {
		rr.Post("/request", requestHandler(svc))
		rr.Post("/verify", func(w http.ResponseWriter, r *http.Request) {
			var req phoneRequest
			if err := respond.Decode(r, &req); err != nil {
				respond.Error(w, r, err, "")
				return
			}
			if err := svc.VerifyCode(r.Context(), req.Phone, req.Code); err != nil {
				respond.Error(w, r, err, "Código inválido o vencido")
				return
			}
			respond.OK(w, r, http.StatusOK, map[string]bool{"valid": true})
		})
		rr.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
			var in ResetInput
			if err := respond.Decode(r, &in); err != nil {
				respond.Error(w, r, err, "")
				return
			}
			if err := svc.ResetPassword(r.Context(), in); err != nil {
				respond.Error(w, r, err, "Error al restablecer la contraseña")
				return
			}
			respond.OK(w, r, http.StatusOK, map[string]bool{"reset": true})
		})
	})
}

// requestHandler godoc
// @Summary Pedir código de recuperación por WhatsApp
// @Tags auth
// @Accept json
// @Produce json
// @Param body body phoneRequest true "Teléfono registrado"
// @Success 200 {object} respond.Envelope
// @Failure 400 {object} respond.Envelope
// @Failure 429 {object} respond.Envelope
// @Router /login/recovery/request [post]
func requestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req phoneRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		if err := svc.RequestCode(r.Context(), req.Phone); err != nil {
			respond.Error(w, r, err, "Error al enviar el código")
			return
		}
		respond.OK(w, r, http.StatusOK, map[string]bool{"sent": true})
	}
}
