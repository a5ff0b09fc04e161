// Package respond arma las respuestas JSON de las vistas: un sobre con data,
// error y los avisos pendientes.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"petcast-web/internal/notify"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/querycache"
	"petcast-web/internal/session"
)

type Envelope struct {
	Data          any                   `json:"data,omitempty"`
	Meta          *Meta                 `json:"meta,omitempty"`
	Error         string                `json:"error,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// Meta acompaña a las lecturas cacheadas.
type Meta struct {
	Stale     bool      `json:"stale"`
	Fetching  bool      `json:"fetching"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ctxKey string

const notesKey ctxKey = "notes"

// Notifications deja el centro de avisos en ctx para que las respuestas
// puedan vaciarlo.
func Notifications(c *notify.Center) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), notesKey, c)))
		})
	}
}

func drain(ctx context.Context) []notify.Notification {
	c, _ := ctx.Value(notesKey).(*notify.Center)
	if c == nil || c.Len() == 0 {
		return nil
	}
	return c.Drain()
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK responde data con los avisos pendientes.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Envelope{Data: data, Notifications: drain(r.Context())})
}

// Error traduce err a la respuesta de la vista:
// - 401 del backend: la sesión ya se cerró, se manda a /login.
// - validación local: 400 con el mensaje.
// - resto: status del backend (4xx) o 502/504 con mensaje normalizado.
func Error(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, httpclient.ErrUnauthorized) {
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	msg := apierror.Normalize(err, fallback).Message
	JSON(w, apierror.HTTPStatus(err), Envelope{Error: msg, Notifications: drain(r.Context())})
}

// Decode lee el body JSON; un body inválido es error de entrada.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: json inválido", apierror.ErrInvalidInput)
	}
	return nil
}

// Query responde el estado de una lectura. Si falló pero hay un dato previo,
// se devuelve el dato junto con el error.
func Query[T any](w http.ResponseWriter, r *http.Request, st querycache.State[T], fallback string) {
	if st.Err != nil && st.UpdatedAt.IsZero() {
		Error(w, r, st.Err, fallback)
		return
	}
	env := Envelope{
		Data: st.Data,
		Meta: &Meta{Stale: st.IsStale, Fetching: st.IsFetching, UpdatedAt: st.UpdatedAt},
	}
	if st.Err != nil {
		if errors.Is(st.Err, httpclient.ErrUnauthorized) {
			http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
			return
		}
		env.Error = apierror.Normalize(st.Err, fallback).Message
	}
	env.Notifications = drain(r.Context())
	JSON(w, http.StatusOK, env)
}
