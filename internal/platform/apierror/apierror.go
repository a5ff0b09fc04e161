// Package apierror convierte fallos de los backends en mensajes para el usuario.
//
// Regla: se prefiere el mensaje del servidor cuando es un texto plano y no un
// error genérico/interno; si no, se usa el mensaje fijo de la operación.
package apierror

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"petcast-web/internal/platform/httpclient"
)

// ErrInvalidInput marca errores de validación local; las vistas responden 400.
var ErrInvalidInput = errors.New("datos inválidos")

// Error es el error estructurado que devuelven mutaciones y vistas.
type Error struct {
	Status  int    // status del backend; 0 si no hubo respuesta
	Message string // mensaje listo para mostrar
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// payload es el formato de error de los backends: message puede ser string o []string.
type payload struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
}

var genericFragments = []string{
	"internal server error",
	"internal error",
	"error interno",
	"unexpected error",
	"something went wrong",
}

// Normalize envuelve err en *Error con el mensaje a mostrar.
func Normalize(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	out := &Error{Message: fallback, Cause: err}
	if errors.Is(err, ErrInvalidInput) {
		out.Status = http.StatusBadRequest
		out.Message = err.Error()
		return out
	}

	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return out
	}
	out.Status = he.StatusCode

	msg := ServerMessage([]byte(he.Body))
	if msg != "" && !IsGeneric(msg, he.StatusCode) {
		out.Message = msg
	}
	return out
}

// ServerMessage extrae el mensaje del body de error; "" si no hay.
func ServerMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var p payload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		// Body de texto plano (p.ej. http.Error); solo si es una línea corta.
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "<") || strings.Contains(trimmed, "\n") || len(trimmed) > 200 {
			return ""
		}
		return trimmed
	}

	if len(p.Message) > 0 {
		var s string
		if err := json.Unmarshal(p.Message, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var list []string
		if err := json.Unmarshal(p.Message, &list); err == nil {
			parts := make([]string, 0, len(list))
			for _, m := range list {
				if m = strings.TrimSpace(m); m != "" {
					parts = append(parts, m)
				}
			}
			return strings.Join(parts, ", ")
		}
	}
	return strings.TrimSpace(p.Error)
}

// IsGeneric detecta mensajes que no aportan nada al usuario.
func IsGeneric(msg string, status int) bool {
	m := strings.ToLower(strings.TrimSpace(msg))
	if m == "" {
		return true
	}
	if status > 0 && m == strings.ToLower(http.StatusText(status)) {
		return true
	}
	for _, frag := range genericFragments {
		if strings.Contains(m, frag) {
			return true
		}
	}
	return false
}

// HTTPStatus elige el status para responder en las vistas.
func HTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	var e *Error
	if errors.As(err, &e) && e.Status >= 400 && e.Status < 500 {
		return e.Status
	}
	if st := httpclient.StatusCode(err); st >= 400 && st < 500 {
		return st
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
