package whatsapp

import (
	"net/http"

	"petcast-web/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// RegisterAdminRoutes monta /whatsapp (estado, QR y envío manual).
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/whatsapp", func(wr chi.Router) {
		wr.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.Status(r.Context()), "Error al consultar el estado de WhatsApp")
		})
		wr.Get("/qr", func(w http.ResponseWriter, r *http.Request) {
			respond.Query(w, r, svc.QR(r.Context()), "Error al obtener el código QR")
		})
		wr.Post("/send", sendHandler(svc))
	})
}

// sendHandler godoc
// @Summary Enviar mensaje de WhatsApp
// @Tags whatsapp
// @Accept json
// @Produce json
// @Param body body SendInput true "Teléfono y mensaje"
// @Success 200 {object} respond.Envelope{data=SendResult}
// @Failure 400 {object} respond.Envelope
// @Router /admin/whatsapp/send [post]
func sendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in SendInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		res, err := svc.Send(r.Context(), in)
		if err != nil {
			respond.Error(w, r, err, "Error al enviar el mensaje")
			return
		}
		respond.OK(w, r, http.StatusOK, res)
	}
}
