package pets

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

	create *mutation.Mutation[CreateInput, Pet]
	update *mutation.Mutation[updateCommand, Pet]
	remove *mutation.Mutation[deleteCommand, string]
}

// updateCommand lleva el dueño anterior para invalidar también su lista.
type updateCommand struct {
	ID            string
	Input         UpdateInput
	previousOwner string
}

type deleteCommand struct {
	ID    string
	owner string
	qr    string
}

func NewService(api API, cache *querycache.Cache, runner *mutation.Runner) *Service {
	s := &Service{api: api, cache: cache}

	s.create = mutation.New(runner, mutation.Spec[CreateInput, Pet]{
		Name: "pets.create",
		Do:   api.Create,
		Changes: func(in CreateInput, out Pet) []querykeys.Change {
			return []querykeys.Change{petChange(out.ID, firstNonEmpty(out.OwnerID, in.OwnerID), "", out.QRCode)}
		},
		Success: "Mascota registrada exitosamente",
		Failure: "Error al registrar la mascota",
	})

	s.update = mutation.New(runner, mutation.Spec[updateCommand, Pet]{
		Name: "pets.update",
		Do: func(ctx context.Context, c updateCommand) (Pet, error) {
			return api.Update(ctx, c.ID, c.Input)
		},
		Changes: func(c updateCommand, out Pet) []querykeys.Change {
			owner := out.OwnerID
			if owner == "" && c.Input.OwnerID != nil {
				owner = *c.Input.OwnerID
			}
			return []querykeys.Change{petChange(c.ID, owner, c.previousOwner, out.QRCode)}
		},
		Success: "Mascota actualizada exitosamente",
		Failure: "Error al actualizar la mascota",
	})

	s.remove = mutation.New(runner, mutation.Spec[deleteCommand, string]{
		Name: "pets.delete",
		Do: func(ctx context.Context, c deleteCommand) (string, error) {
			if err := api.Delete(ctx, c.ID); err != nil {
				return "", err
			}
			return c.ID, nil
		},
		Changes: func(c deleteCommand, _ string) []querykeys.Change {
			return []querykeys.Change{petChange(c.ID, c.owner, "", c.qr)}
		},
		Success: "Mascota eliminada exitosamente",
		Failure: "Error al eliminar la mascota",
	})

	return s
}

func petChange(id, owner, previousOwner, qr string) querykeys.Change {
	return querykeys.Change{
		Resource: querykeys.ResourcePet,
		ID:       id,
		Scopes: map[string]string{
			querykeys.ScopeOwner:         owner,
			querykeys.ScopePreviousOwner: previousOwner,
			querykeys.ScopeQR:            qr,
		},
	}
}

// ---- lecturas ----

func (s *Service) List(ctx context.Context) querycache.State[[]Pet] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]Pet]{
		Key:     querykeys.Pets(),
		Fetch:   s.api.List,
		Enabled: true,
	})
}

func (s *Service) Get(ctx context.Context, id string) querycache.State[Pet] {
	id = strings.TrimSpace(id)
	return querycache.Use(ctx, s.cache, querycache.Query[Pet]{
		Key:     querykeys.Pet(id),
		Fetch:   func(ctx context.Context) (Pet, error) { return s.api.Get(ctx, id) },
		Enabled: id != "",
	})
}

func (s *Service) ByOwner(ctx context.Context, ownerID string) querycache.State[[]Pet] {
	ownerID = strings.TrimSpace(ownerID)
	return querycache.Use(ctx, s.cache, querycache.Query[[]Pet]{
		Key:     querykeys.PetsByOwner(ownerID),
		Fetch:   func(ctx context.Context) ([]Pet, error) { return s.api.ListByOwner(ctx, ownerID) },
		Enabled: ownerID != "",
	})
}

func (s *Service) ByQR(ctx context.Context, code string) querycache.State[Pet] {
	code = strings.TrimSpace(code)
	return querycache.Use(ctx, s.cache, querycache.Query[Pet]{
		Key:     querykeys.PetByQR(code),
		Fetch:   func(ctx context.Context) (Pet, error) { return s.api.GetByQR(ctx, code) },
		Enabled: code != "",
	})
}

// ---- mutaciones ----

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	in.OwnerID = strings.TrimSpace(in.OwnerID)
	if in.Name == "" || in.Species == "" {
		return Pet{}, fmt.Errorf("%w: nombre y especie son obligatorios", apierror.ErrInvalidInput)
	}
	if !in.Sex.Valid() {
		return Pet{}, fmt.Errorf("%w: sexo debe ser MALE o FEMALE", apierror.ErrInvalidInput)
	}
	return s.create.Mutate(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return Pet{}, fmt.Errorf("%w: el nombre no puede quedar vacío", apierror.ErrInvalidInput)
	}
	if in.Sex != nil && !in.Sex.Valid() {
		return Pet{}, fmt.Errorf("%w: sexo debe ser MALE o FEMALE", apierror.ErrInvalidInput)
	}
	if in.Status != nil && !in.Status.Valid() {
		return Pet{}, fmt.Errorf("%w: estado debe ser ACTIVE o INACTIVE", apierror.ErrInvalidInput)
	}

	c := updateCommand{ID: id, Input: in}
	if in.OwnerID != nil {
		c.previousOwner, _ = s.OwnerOf(ctx, id)
	} else if p, ok := s.cached(id); ok {
		c.previousOwner = p.OwnerID
	}
	return s.update.Mutate(ctx, c)
}

// Delete devuelve el id borrado. Un segundo delete del mismo id falla en el
// backend y se reporta como cualquier otro error.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	// Sin dueño conocido se invalidan todas las listas por dueño.
	c := deleteCommand{ID: id}
	if p, ok := s.cached(id); ok {
		c.owner, c.qr = p.OwnerID, p.QRCode
	}
	return s.remove.Mutate(ctx, c)
}

func (s *Service) Pending() bool {
	return s.create.IsPending() || s.update.IsPending() || s.remove.IsPending()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
