// Package clinicapi implementa las APIs de dominio contra los cuatro
// backends REST de la clínica (user, pet, appointment y statistics).
package clinicapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/platform/logger"
)

var ErrNotConfigured = errors.New("clinicapi: base url not configured")

type Config struct {
	UserURL        string
	PetURL         string
	AppointmentURL string
	StatisticsURL  string

	Timeout   time.Duration
	Transport http.RoundTripper

	// Token se lee en cada request (sesión persistida).
	Token          httpclient.TokenFunc
	OnUnauthorized httpclient.UnauthorizedFunc
	Logger         logger.Logger
}

// Backend agrupa un cliente por recurso; cada uno implementa la API del
// paquete de dominio correspondiente.
type Backend struct {
	Auth           *AuthClient
	Recovery       *RecoveryClient
	Users          *UsersClient
	Pets           *PetsClient
	MedicalRecords *MedicalRecordsClient
	Reminders      *RemindersClient
	WhatsApp       *WhatsAppClient
	Appointments   *AppointmentsClient
	Statistics     *StatisticsClient
}

func New(cfg Config) (*Backend, error) {
	mk := func(service, base string) (*httpclient.Client, error) {
		if strings.TrimSpace(base) == "" {
			return nil, fmt.Errorf("%w: %s", ErrNotConfigured, service)
		}
		c, err := httpclient.NewWithOptions(httpclient.Options{
			BaseURL:        base,
			Service:        service,
			Timeout:        cfg.Timeout,
			Transport:      cfg.Transport,
			Token:          cfg.Token,
			OnUnauthorized: cfg.OnUnauthorized,
			Logger:         cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("clinicapi: %s: %w", service, err)
		}
		return c, nil
	}

	user, err := mk("user", cfg.UserURL)
	if err != nil {
		return nil, err
	}
	pet, err := mk("pet", cfg.PetURL)
	if err != nil {
		return nil, err
	}
	appointment, err := mk("appointment", cfg.AppointmentURL)
	if err != nil {
		return nil, err
	}
	stats, err := mk("statistics", cfg.StatisticsURL)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Auth:           &AuthClient{c: user},
		Recovery:       &RecoveryClient{c: user},
		Users:          &UsersClient{c: user},
		Pets:           &PetsClient{c: pet},
		MedicalRecords: &MedicalRecordsClient{c: pet},
		Reminders:      &RemindersClient{c: pet},
		WhatsApp:       &WhatsAppClient{c: pet},
		Appointments:   &AppointmentsClient{c: appointment},
		Statistics:     &StatisticsClient{c: stats},
	}, nil
}

func path(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(strings.Trim(p, "/")))
	}
	return b.String()
}

func getList[W, D any](ctx context.Context, c *httpclient.Client, p string, conv func(W) D) ([]D, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, p, &raw); err != nil {
		return nil, err
	}
	ws, err := decodeList[W](raw)
	if err != nil {
		return nil, err
	}
	return mapList(ws, conv), nil
}

func doOne[W, D any](ctx context.Context, c *httpclient.Client, method, p string, in any, conv func(W) D) (D, error) {
	var raw json.RawMessage
	if err := c.DoJSON(ctx, method, p, nil, in, &raw); err != nil {
		var zero D
		return zero, err
	}
	w, err := decodeOne[W](raw)
	if err != nil {
		var zero D
		return zero, err
	}
	return conv(w), nil
}
