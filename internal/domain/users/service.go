package users

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"petcast-web/internal/mutation"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

// Service expone lecturas y mutaciones de dueños y veterinarios.
type Service struct {
	api   API
	cache *querycache.Cache

	owners crud
	vets   crud
}

type updateCommand struct {
	ID    string
	Input UpdateInput
}

// crud agrupa las tres mutaciones de un tipo de persona.
type crud struct {
	create *mutation.Mutation[CreateInput, User]
	update *mutation.Mutation[updateCommand, User]
	remove *mutation.Mutation[string, string]
}

func (c crud) pending() bool {
	return c.create.IsPending() || c.update.IsPending() || c.remove.IsPending()
}

type labels struct {
	resource querykeys.Resource
	name     string
	noun     string // para los mensajes
}

func NewService(api API, cache *querycache.Cache, runner *mutation.Runner) *Service {
	return &Service{
		api:    api,
		cache:  cache,
		owners: newCrud(api, runner, labels{querykeys.ResourceOwner, "owners", "dueño"}),
		vets:   newCrud(api, runner, labels{querykeys.ResourceVet, "vets", "veterinario"}),
	}
}

func newCrud(api API, runner *mutation.Runner, l labels) crud {
	change := func(id string) []querykeys.Change {
		return []querykeys.Change{{Resource: l.resource, ID: id}}
	}
	title := strings.ToUpper(l.noun[:1]) + l.noun[1:]

	return crud{
		create: mutation.New(runner, mutation.Spec[CreateInput, User]{
			Name:    l.name + ".create",
			Do:      api.Create,
			Changes: func(_ CreateInput, out User) []querykeys.Change { return change(out.ID) },
			Success: title + " creado exitosamente",
			Failure: "Error al crear el " + l.noun,
		}),
		update: mutation.New(runner, mutation.Spec[updateCommand, User]{
			Name: l.name + ".update",
			Do: func(ctx context.Context, c updateCommand) (User, error) {
				return api.Update(ctx, c.ID, c.Input)
			},
			Changes: func(c updateCommand, _ User) []querykeys.Change { return change(c.ID) },
			Success: title + " actualizado exitosamente",
			Failure: "Error al actualizar el " + l.noun,
		}),
		remove: mutation.New(runner, mutation.Spec[string, string]{
			Name: l.name + ".delete",
			Do: func(ctx context.Context, id string) (string, error) {
				if err := api.Delete(ctx, id); err != nil {
					return "", err
				}
				return id, nil
			},
			Changes: func(id string, _ string) []querykeys.Change { return change(id) },
			Success: title + " eliminado exitosamente",
			Failure: "Error al eliminar el " + l.noun,
		}),
	}
}

// ---- lecturas ----

func (s *Service) List(ctx context.Context) querycache.State[[]User] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]User]{Key: querykeys.Users(), Fetch: s.api.List, Enabled: true})
}

func (s *Service) Owners(ctx context.Context) querycache.State[[]User] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]User]{Key: querykeys.Owners(), Fetch: s.api.ListOwners, Enabled: true})
}

func (s *Service) Vets(ctx context.Context) querycache.State[[]User] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]User]{Key: querykeys.Vets(), Fetch: s.api.ListVets, Enabled: true})
}

func (s *Service) Get(ctx context.Context, id string) querycache.State[User] {
	id = strings.TrimSpace(id)
	return querycache.Use(ctx, s.cache, querycache.Query[User]{
		Key:     querykeys.User(id),
		Fetch:   func(ctx context.Context) (User, error) { return s.api.Get(ctx, id) },
		Enabled: id != "",
	})
}

// ---- mutaciones ----

func (s *Service) CreateOwner(ctx context.Context, in CreateInput) (User, error) {
	in.Role = KindOwner
	if err := validateCreate(&in); err != nil {
		return User{}, err
	}
	return s.owners.create.Mutate(ctx, in)
}

func (s *Service) CreateVet(ctx context.Context, in CreateInput) (User, error) {
	in.Role = KindVet
	in.Address = ""
	if err := validateCreate(&in); err != nil {
		return User{}, err
	}
	return s.vets.create.Mutate(ctx, in)
}

func (s *Service) UpdateOwner(ctx context.Context, id string, in UpdateInput) (User, error) {
	c, err := updateCmd(id, in)
	if err != nil {
		return User{}, err
	}
	return s.owners.update.Mutate(ctx, c)
}

func (s *Service) UpdateVet(ctx context.Context, id string, in UpdateInput) (User, error) {
	c, err := updateCmd(id, in)
	if err != nil {
		return User{}, err
	}
	return s.vets.update.Mutate(ctx, c)
}

func (s *Service) DeleteOwner(ctx context.Context, id string) (string, error) {
	if id = strings.TrimSpace(id); id == "" {
		return "", fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	return s.owners.remove.Mutate(ctx, id)
}

func (s *Service) DeleteVet(ctx context.Context, id string) (string, error) {
	if id = strings.TrimSpace(id); id == "" {
		return "", fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	return s.vets.remove.Mutate(ctx, id)
}

func (s *Service) Pending() bool { return s.owners.pending() || s.vets.pending() }

func validateCreate(in *CreateInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("%w: nombre y apellido son obligatorios", apierror.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email inválido", apierror.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Password) == "" {
		return fmt.Errorf("%w: la contraseña es obligatoria", apierror.ErrInvalidInput)
	}
	return nil
}

func updateCmd(id string, in UpdateInput) (updateCommand, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return updateCommand{}, fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	if in.Email != nil {
		if _, err := mail.ParseAddress(strings.TrimSpace(*in.Email)); err != nil {
			return updateCommand{}, fmt.Errorf("%w: email inválido", apierror.ErrInvalidInput)
		}
	}
	if in.Password != nil && strings.TrimSpace(*in.Password) == "" {
		return updateCommand{}, fmt.Errorf("%w: la contraseña no puede quedar vacía", apierror.ErrInvalidInput)
	}
	return updateCommand{ID: id, Input: in}, nil
}
