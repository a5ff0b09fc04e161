package reminders

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
	api   API
	cache *querycache.Cache

	create     *mutation.Mutation[CreateInput, Reminder]
	update     *mutation.Mutation[updateCommand, Reminder]
	remove     *mutation.Mutation[string, string]
	send       *mutation.Mutation[string, Reminder]
	processAll *mutation.Mutation[struct{}, ProcessResult]
}

type updateCommand struct {
	ID    string
	Input UpdateInput
}

func changed(id string) []querykeys.Change {
	return []querykeys.Change{{Resource: querykeys.ResourceReminder, ID: id}}
}

func NewService(api API, cache *querycache.Cache, runner *mutation.Runner) *Service {
	s := &Service{api: api, cache: cache}

	s.create = mutation.New(runner, mutation.Spec[CreateInput, Reminder]{
		Name:    "reminders.create",
		Do:      api.Create,
		Changes: func(_ CreateInput, out Reminder) []querykeys.Change { return changed(out.ID) },
		Success: "Recordatorio creado exitosamente",
		Failure: "Error al crear el recordatorio",
	})
	s.update = mutation.New(runner, mutation.Spec[updateCommand, Reminder]{
		Name: "reminders.update",
		Do: func(ctx context.Context, c updateCommand) (Reminder, error) {
			return api.Update(ctx, c.ID, c.Input)
		},
		Changes: func(c updateCommand, _ Reminder) []querykeys.Change { return changed(c.ID) },
		Success: "Recordatorio actualizado exitosamente",
		Failure: "Error al actualizar el recordatorio",
	})
	s.remove = mutation.New(runner, mutation.Spec[string, string]{
		Name: "reminders.delete",
		Do: func(ctx context.Context, id string) (string, error) {
			if err := api.Delete(ctx, id); err != nil {
				return "", err
			}
			return id, nil
		},
		Changes: func(id string, _ string) []querykeys.Change { return changed(id) },
		Success: "Recordatorio eliminado exitosamente",
		Failure: "Error al eliminar el recordatorio",
	})
	// Enviar cambia el estado del recordatorio y puede cambiar el de la conexión.
	s.send = mutation.New(runner, mutation.Spec[string, Reminder]{
		Name: "reminders.send",
		Do:   api.Send,
		Changes: func(id string, _ Reminder) []querykeys.Change {
			return append(changed(id), querykeys.Change{Resource: querykeys.ResourceWhatsApp})
		},
		Success: "Recordatorio enviado exitosamente",
		Failure: "Error al enviar el recordatorio",
	})
	s.processAll = mutation.New(runner, mutation.Spec[struct{}, ProcessResult]{
		Name: "reminders.process-all",
		Do: func(ctx context.Context, _ struct{}) (ProcessResult, error) {
			return api.ProcessAll(ctx)
		},
		Changes: func(struct{}, ProcessResult) []querykeys.Change {
			return append(changed(""), querykeys.Change{Resource: querykeys.ResourceWhatsApp})
		},
		Success: "Recordatorios pendientes procesados",
		Failure: "Error al procesar los recordatorios",
	})
	return s
}

func (s *Service) List(ctx context.Context) querycache.State[[]Reminder] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]Reminder]{Key: querykeys.Reminders(), Fetch: s.api.List, Enabled: true})
}

func (s *Service) Pending(ctx context.Context) querycache.State[[]Reminder] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]Reminder]{Key: querykeys.PendingReminders(), Fetch: s.api.ListPending, Enabled: true})
}

func (s *Service) Get(ctx context.Context, id string) querycache.State[Reminder] {
	id = strings.TrimSpace(id)
	return querycache.Use(ctx, s.cache, querycache.Query[Reminder]{
		Key:     querykeys.Reminder(id),
		Fetch:   func(ctx context.Context) (Reminder, error) { return s.api.Get(ctx, id) },
		Enabled: id != "",
	})
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Reminder, error) {
	in.Message = strings.TrimSpace(in.Message)
	if !in.Type.Valid() {
		return Reminder{}, fmt.Errorf("%w: tipo de recordatorio inválido", apierror.ErrInvalidInput)
	}
	if in.Message == "" || in.SendDate.IsZero() {
		return Reminder{}, fmt.Errorf("%w: mensaje y fecha de envío son obligatorios", apierror.ErrInvalidInput)
	}
	return s.create.Mutate(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Reminder, error) {
	if id = strings.TrimSpace(id); id == "" {
		return Reminder{}, fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	if in.Type != nil && !in.Type.Valid() {
		return Reminder{}, fmt.Errorf("%w: tipo de recordatorio inválido", apierror.ErrInvalidInput)
	}
	return s.update.Mutate(ctx, updateCommand{ID: id, Input: in})
}

func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	if id = strings.TrimSpace(id); id == "" {
		return "", fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	return s.remove.Mutate(ctx, id)
}

func (s *Service) Send(ctx context.Context, id string) (Reminder, error) {
	if id = strings.TrimSpace(id); id == "" {
		return Reminder{}, fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	return s.send.Mutate(ctx, id)
}

func (s *Service) ProcessAll(ctx context.Context) (ProcessResult, error) {
	return s.processAll.Mutate(ctx, struct{}{})
}

func (s *Service) IsPending() bool {
	return s.create.IsPending() || s.update.IsPending() || s.remove.IsPending() ||
		s.send.IsPending() || s.processAll.IsPending()
}
