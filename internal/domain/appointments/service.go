package appointments

import (
	"context"
	"fmt"
	"strings"

	"petcast-web/internal/mutation"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

type Service struct {
	api    API
	cache  *querycache.Cache
	owners OwnerLookup

	create     *mutation.Mutation[CreateInput, Appointment]
	update     *mutation.Mutation[updateCommand, Appointment]
	remove     *mutation.Mutation[deleteCommand, string]
	transition map[Transition]*mutation.Mutation[transitionCommand, Appointment]
}

type updateCommand struct {
	ID    string
	Input UpdateInput
	prev  Appointment
}

type deleteCommand struct {
	ID   string
	prev Appointment
}

type transitionCommand struct {
	ID   string
	prev Appointment
}

var transitionMessages = map[Transition][2]string{
	TransitionConfirm:  {"Cita confirmada exitosamente", "Error al confirmar la cita"},
	TransitionComplete: {"Cita completada exitosamente", "Error al completar la cita"},
	TransitionCancel:   {"Cita cancelada exitosamente", "Error al cancelar la cita"},
}

// NewService: owners es opcional; sin él, Create exige ownerId.
func NewService(api API, cache *querycache.Cache, runner *mutation.Runner, owners OwnerLookup) *Service {
	s := &Service{api: api, cache: cache, owners: owners}

	s.create = mutation.New(runner, mutation.Spec[CreateInput, Appointment]{
		Name: "appointments.create",
		Do:   api.Create,
		Changes: func(in CreateInput, out Appointment) []querykeys.Change {
			return []querykeys.Change{appointmentChange(out.ID, merge(out, Appointment{PetID: in.PetID, OwnerID: in.OwnerID, VetID: in.VetID}))}
		},
		Success: "Cita agendada exitosamente",
		Failure: "Error al agendar la cita",
	})
	s.update = mutation.New(runner, mutation.Spec[updateCommand, Appointment]{
		Name: "appointments.update",
		Do: func(ctx context.Context, c updateCommand) (Appointment, error) {
			return api.Update(ctx, c.ID, c.Input)
		},
		Changes: func(c updateCommand, out Appointment) []querykeys.Change {
			changes := []querykeys.Change{appointmentChange(c.ID, merge(out, c.prev))}
			// Si cambió el vet, también la agenda del vet anterior.
			if c.prev.VetID != "" && out.VetID != "" && c.prev.VetID != out.VetID {
				changes = append(changes, appointmentChange(c.ID, Appointment{VetID: c.prev.VetID}))
			}
			return changes
		},
		Success: "Cita actualizada exitosamente",
		Failure: "Error al actualizar la cita",
	})
	s.remove = mutation.New(runner, mutation.Spec[deleteCommand, string]{
		Name: "appointments.delete",
		Do: func(ctx context.Context, c deleteCommand) (string, error) {
			if err := api.Delete(ctx, c.ID); err != nil {
				return "", err
			}
			return c.ID, nil
		},
		Changes: func(c deleteCommand, _ string) []querykeys.Change {
			return []querykeys.Change{appointmentChange(c.ID, c.prev)}
		},
		Success: "Cita eliminada exitosamente",
		Failure: "Error al eliminar la cita",
	})

	s.transition = make(map[Transition]*mutation.Mutation[transitionCommand, Appointment], len(transitionMessages))
	for t, msgs := range transitionMessages {
		s.transition[t] = mutation.New(runner, mutation.Spec[transitionCommand, Appointment]{
			Name: "appointments." + string(t),
			Do: func(ctx context.Context, c transitionCommand) (Appointment, error) {
				return api.Transition(ctx, c.ID, t)
			},
			Changes: func(c transitionCommand, out Appointment) []querykeys.Change {
				return []querykeys.Change{appointmentChange(c.ID, merge(out, c.prev))}
			},
			Success: msgs[0],
			Failure: msgs[1],
		})
	}
	return s
}

func appointmentChange(id string, a Appointment) querykeys.Change {
	return querykeys.Change{
		Resource: querykeys.ResourceAppointment,
		ID:       id,
		Scopes: map[string]string{
			querykeys.ScopePet:   a.PetID,
			querykeys.ScopeOwner: a.OwnerID,
			querykeys.ScopeVet:   a.VetID,
		},
	}
}

// merge completa las relaciones que falten en a con las de fallback.
func merge(a, fallback Appointment) Appointment {
	if a.PetID == "" {
		a.PetID = fallback.PetID
	}
	if a.OwnerID == "" {
		a.OwnerID = fallback.OwnerID
	}
	if a.VetID == "" {
		a.VetID = fallback.VetID
	}
	return a
}

// ---- lecturas ----

func (s *Service) List(ctx context.Context) querycache.State[[]Appointment] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]Appointment]{Key: querykeys.Appointments(), Fetch: s.api.List, Enabled: true})
}

func (s *Service) Today(ctx context.Context) querycache.State[[]Appointment] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]Appointment]{Key: querykeys.AppointmentsToday(), Fetch: s.api.Today, Enabled: true})
}

func (s *Service) ByStatus(ctx context.Context, status Status) querycache.State[[]Appointment] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]Appointment]{
		Key:     querykeys.AppointmentsByStatus(string(status)),
		Fetch:   func(ctx context.Context) ([]Appointment, error) { return s.api.ListByStatus(ctx, status) },
		Enabled: status.Valid(),
	})
}

func (s *Service) ByPet(ctx context.Context, petID string) querycache.State[[]Appointment] {
	return s.scoped(ctx, querykeys.AppointmentsByPet, s.api.ListByPet, petID)
}

func (s *Service) ByOwner(ctx context.Context, ownerID string) querycache.State[[]Appointment] {
	return s.scoped(ctx, querykeys.AppointmentsByOwner, s.api.ListByOwner, ownerID)
}

func (s *Service) ByVet(ctx context.Context, vetID string) querycache.State[[]Appointment] {
	return s.scoped(ctx, querykeys.AppointmentsByVet, s.api.ListByVet, vetID)
}

func (s *Service) scoped(
	ctx context.Context,
	key func(string) querykeys.Key,
	fetch func(context.Context, string) ([]Appointment, error),
	id string,
) querycache.State[[]Appointment] {
	id = strings.TrimSpace(id)
	return querycache.Use(ctx, s.cache, querycache.Query[[]Appointment]{
		Key:     key(id),
		Fetch:   func(ctx context.Context) ([]Appointment, error) { return fetch(ctx, id) },
		Enabled: id != "",
	})
}

func (s *Service) Get(ctx context.Context, id string) querycache.State[Appointment] {
	id = strings.TrimSpace(id)
	return querycache.Use(ctx, s.cache, querycache.Query[Appointment]{
		Key:     querykeys.Appointment(id),
		Fetch:   func(ctx context.Context) (Appointment, error) { return s.api.Get(ctx, id) },
		Enabled: id != "",
	})
}

// ---- mutaciones ----

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	in.PetID = strings.TrimSpace(in.PetID)
	in.OwnerID = strings.TrimSpace(in.OwnerID)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.PetID == "" || in.Reason == "" {
		return Appointment{}, fmt.Errorf("%w: mascota y motivo son obligatorios", apierror.ErrInvalidInput)
	}
	if in.DateTime.IsZero() {
		return Appointment{}, fmt.Errorf("%w: fecha y hora son obligatorias", apierror.ErrInvalidInput)
	}
	if in.OwnerID == "" && s.owners != nil {
		in.OwnerID, _ = s.owners.OwnerOf(ctx, in.PetID)
	}
	if in.OwnerID == "" {
		return Appointment{}, fmt.Errorf("%w: la mascota no tiene dueño asignado", apierror.ErrInvalidInput)
	}
	return s.create.Mutate(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Appointment, error) {
	if id = strings.TrimSpace(id); id == "" {
		return Appointment{}, fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	if in.Reason != nil && strings.TrimSpace(*in.Reason) == "" {
		return Appointment{}, fmt.Errorf("%w: el motivo no puede quedar vacío", apierror.ErrInvalidInput)
	}
	return s.update.Mutate(ctx, updateCommand{ID: id, Input: in, prev: s.cached(id)})
}

func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	if id = strings.TrimSpace(id); id == "" {
		return "", fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	return s.remove.Mutate(ctx, deleteCommand{ID: id, prev: s.cached(id)})
}

func (s *Service) Confirm(ctx context.Context, id string) (Appointment, error) {
	return s.apply(ctx, id, TransitionConfirm)
}

func (s *Service) Complete(ctx context.Context, id string) (Appointment, error) {
	return s.apply(ctx, id, TransitionComplete)
}

func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	return s.apply(ctx, id, TransitionCancel)
}

// apply no valida el estado actual: eso lo decide el backend.
func (s *Service) apply(ctx context.Context, id string, t Transition) (Appointment, error) {
	if id = strings.TrimSpace(id); id == "" {
		return Appointment{}, fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	m, ok := s.transition[t]
	if !ok {
		return Appointment{}, fmt.Errorf("%w: acción %q desconocida", apierror.ErrInvalidInput, t)
	}
	return m.Mutate(ctx, transitionCommand{ID: id, prev: s.cached(id)})
}

func (s *Service) Pending() bool {
	if s.create.IsPending() || s.update.IsPending() || s.remove.IsPending() {
		return true
	}
	for _, m := range s.transition {
		if m.IsPending() {
			return true
		}
	}
	return false
}

// cached busca la cita en cache (detalle o lista general) sin pedirla.
func (s *Service) cached(id string) Appointment {
	if a, ok := querycache.Peek[Appointment](s.cache, querykeys.Appointment(id)); ok {
		return a
	}
	if all, ok := querycache.Peek[[]Appointment](s.cache, querykeys.Appointments()); ok {
		for _, a := range all {
			if a.ID == id {
				return a
			}
		}
	}
	return Appointment{}
}
