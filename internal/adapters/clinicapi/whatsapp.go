package clinicapi

import (
	"context"
	"net/http"
	"strings"

	"petcast-web/internal/domain/whatsapp"
	"petcast-web/internal/platform/httpclient"
)

// WhatsAppClient implementa whatsapp.API (vive en el pet-service).
type WhatsAppClient struct{ c *httpclient.Client }

var _ whatsapp.API = (*WhatsAppClient)(nil)

type whatsAppStatusDTO struct {
	Connected   *bool  `json:"connected"`
	IsConnected *bool  `json:"isConnected"`
	State       string `json:"state"`
	Status      string `json:"status"`
}

func (d whatsAppStatusDTO) toDomain() whatsapp.Status {
	st := whatsapp.Status{State: firstNonEmpty(d.State, d.Status)}
	switch {
	case d.Connected != nil:
		st.Connected = *d.Connected
	case d.IsConnected != nil:
		st.Connected = *d.IsConnected
	default:
		s := strings.ToLower(st.State)
		st.Connected = s == "open" || s == "connected" || s == "ready"
	}
	return st
}

type whatsAppQRDTO struct {
	QR     string `json:"qr"`
	QRCode string `json:"qrCode"`
}

type sendResultDTO struct {
	Success   *bool  `json:"success"`
	MessageID string `json:"messageId"`
	ID        ID     `json:"id"`
}

func (w *WhatsAppClient) Status(ctx context.Context) (whatsapp.Status, error) {
	return doOne(ctx, w.c, http.MethodGet, path("whatsapp", "status"), nil, whatsAppStatusDTO.toDomain)
}

func (w *WhatsAppClient) QR(ctx context.Context) (whatsapp.QR, error) {
	return doOne(ctx, w.c, http.MethodGet, path("whatsapp", "qr"), nil, func(d whatsAppQRDTO) whatsapp.QR {
		return whatsapp.QR{QR: firstNonEmpty(d.QR, d.QRCode)}
	})
}

func (w *WhatsAppClient) Send(ctx context.Context, in whatsapp.SendInput) (whatsapp.SendResult, error) {
	return doOne(ctx, w.c, http.MethodPost, path("whatsapp", "send"), in, func(d sendResultDTO) whatsapp.SendResult {
		// Un 2xx sin flag cuenta como enviado.
		ok := d.Success == nil || *d.Success
		return whatsapp.SendResult{Success: ok, MessageID: firstNonEmpty(d.MessageID, d.ID.String())}
	})
}
