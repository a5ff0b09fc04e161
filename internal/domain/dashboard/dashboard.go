// Package dashboard arma las pantallas de inicio de cada rol juntando
// lecturas de varios servicios. Cada sección falla por separado.
package dashboard

import (
	"context"
	"errors"
	"sort"
	"time"

	"petcast-web/internal/domain/appointments"
	"petcast-web/internal/domain/medicalrecords"
	"petcast-web/internal/domain/pets"
	"petcast-web/internal/domain/reminders"
	"petcast-web/internal/domain/statistics"
	"petcast-web/internal/domain/whatsapp"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/querycache"

	"golang.org/x/sync/errgroup"
)

const (
	upcomingLimit = 5
	// historiales que se precargan desde el inicio del dueño
	prefetchLimit = 3
)

// Section es una parte de la pantalla con su propio error.
type Section[T any] struct {
	Data      T         `json:"data"`
	Error     string    `json:"error,omitempty"`
	Stale     bool      `json:"stale,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`

	err error
}

func section[T any](st querycache.State[T], fallback string) Section[T] {
	s := Section[T]{Data: st.Data, Stale: st.IsStale, UpdatedAt: st.UpdatedAt, err: st.Err}
	if st.Err != nil {
		s.Error = apierror.Normalize(st.Err, fallback).Message
	}
	return s
}

func (s Section[T]) unauthorized() bool { return errors.Is(s.err, httpclient.ErrUnauthorized) }

type Admin struct {
	Statistics Section[statistics.Dashboard]       `json:"statistics"`
	Today      Section[[]appointments.Appointment] `json:"today"`
	Reminders  Section[[]reminders.Reminder]       `json:"pendingReminders"`
	WhatsApp   Section[whatsapp.Status]            `json:"whatsapp"`
}

func (a Admin) Unauthorized() bool {
	return a.Statistics.unauthorized() || a.Today.unauthorized() || a.Reminders.unauthorized() || a.WhatsApp.unauthorized()
}

type Vet struct {
	Today    Section[[]appointments.Appointment] `json:"today"`
	Upcoming Section[[]appointments.Appointment] `json:"upcoming"`
}

func (v Vet) Unauthorized() bool { return v.Today.unauthorized() || v.Upcoming.unauthorized() }

type Owner struct {
	Pets     Section[[]pets.Pet]                 `json:"pets"`
	Upcoming Section[[]appointments.Appointment] `json:"upcoming"`
}

func (o Owner) Unauthorized() bool { return o.Pets.unauthorized() || o.Upcoming.unauthorized() }

type Service struct {
	Pets           *pets.Service
	MedicalRecords *medicalrecords.Service
	Appointments   *appointments.Service
	Reminders      *reminders.Service
	Statistics     *statistics.Service
	WhatsApp       *whatsapp.Service

	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Admin(ctx context.Context) Admin {
	var out Admin
	var g errgroup.Group
	g.Go(func() error {
		out.Statistics = section(s.Statistics.Dashboard(ctx), "Error al cargar las estadísticas")
		return nil
	})
	g.Go(func() error {
		out.Today = section(s.Appointments.Today(ctx), "Error al cargar las citas de hoy")
		return nil
	})
	g.Go(func() error {
		out.Reminders = section(s.Reminders.Pending(ctx), "Error al cargar los recordatorios")
		return nil
	})
	g.Go(func() error {
		out.WhatsApp = section(s.WhatsApp.Status(ctx), "Error al consultar el estado de WhatsApp")
		return nil
	})
	_ = g.Wait()
	return out
}

func (s *Service) Vet(ctx context.Context, vetID string) Vet {
	var out Vet
	var g errgroup.Group
	g.Go(func() error {
		out.Today = section(s.Appointments.Today(ctx), "Error al cargar las citas de hoy")
		out.Today.Data = filter(out.Today.Data, func(a appointments.Appointment) bool { return a.VetID == vetID })
		return nil
	})
	g.Go(func() error {
		out.Upcoming = section(s.Appointments.ByVet(ctx, vetID), "Error al cargar la agenda")
		out.Upcoming.Data = Upcoming(out.Upcoming.Data, s.now(), upcomingLimit)
		return nil
	})
	_ = g.Wait()
	return out
}

func (s *Service) Owner(ctx context.Context, ownerID string) Owner {
	var out Owner
	var g errgroup.Group
	g.Go(func() error {
		out.Pets = section(s.Pets.ByOwner(ctx, ownerID), "Error al cargar tus mascotas")
		s.prefetchHistories(ctx, out.Pets.Data)
		return nil
	})
	g.Go(func() error {
		out.Upcoming = section(s.Appointments.ByOwner(ctx, ownerID), "Error al cargar tus citas")
		out.Upcoming.Data = Upcoming(out.Upcoming.Data, s.now(), upcomingLimit)
		return nil
	})
	_ = g.Wait()
	return out
}

// prefetchHistories deja en camino el historial de las primeras mascotas:
// es lo próximo que abre el dueño.
func (s *Service) prefetchHistories(ctx context.Context, list []pets.Pet) {
	if s.MedicalRecords == nil {
		return
	}
	for i, p := range list {
		if i == prefetchLimit {
			break
		}
		s.MedicalRecords.PrefetchByPet(ctx, p.ID)
	}
}

// Upcoming deja las citas activas desde now en adelante, las más cercanas primero.
func Upcoming(list []appointments.Appointment, now time.Time, limit int) []appointments.Appointment {
	out := filter(list, func(a appointments.Appointment) bool {
		active := a.Status == appointments.StatusScheduled || a.Status == appointments.StatusConfirmed
		return active && !a.DateTime.Before(now)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// filter copia: nunca modifica el slice que está en cache.
func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
