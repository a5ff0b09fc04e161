// Package whatsapp expone la integración de WhatsApp del pet-service: estado
// de la conexión, QR de vinculación y envío de mensajes.
package whatsapp

type Status struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
}

// QR es el código que escanea el teléfono de la clínica; vacío si ya está vinculado.
type QR struct {
	QR string `json:"qr"`
}

type SendInput struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
}
