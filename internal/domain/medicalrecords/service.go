package medicalrecords

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

	create *mutation.Mutation[CreateInput, Record]
	update *mutation.Mutation[updateCommand, Record]
	remove *mutation.Mutation[deleteCommand, string]
}

type updateCommand struct {
	ID    string
	Input UpdateInput
	petID string
}

type deleteCommand struct {
	ID    string
	petID string
}

func NewService(api API, cache *querycache.Cache, runner *mutation.Runner) *Service {
	s := &Service{api: api, cache: cache}

	s.create = mutation.New(runner, mutation.Spec[CreateInput, Record]{
		Name: "medical-records.create",
		Do:   api.Create,
		Changes: func(in CreateInput, out Record) []querykeys.Change {
			pet := out.PetID
			if pet == "" {
				pet = in.PetID
			}
			return []querykeys.Change{recordChange(out.ID, pet)}
		},
		Success: "Ficha médica creada exitosamente",
		Failure: "Error al crear la ficha médica",
	})
	s.update = mutation.New(runner, mutation.Spec[updateCommand, Record]{
		Name: "medical-records.update",
		Do: func(ctx context.Context, c updateCommand) (Record, error) {
			return api.Update(ctx, c.ID, c.Input)
		},
		Changes: func(c updateCommand, out Record) []querykeys.Change {
			pet := out.PetID
			if pet == "" {
				pet = c.petID
			}
			return []querykeys.Change{recordChange(c.ID, pet)}
		},
		Success: "Ficha médica actualizada exitosamente",
		Failure: "Error al actualizar la ficha médica",
	})
	s.remove = mutation.New(runner, mutation.Spec[deleteCommand, string]{
		Name: "medical-records.delete",
		Do: func(ctx context.Context, c deleteCommand) (string, error) {
			if err := api.Delete(ctx, c.ID); err != nil {
				return "", err
			}
			return c.ID, nil
		},
		Changes: func(c deleteCommand, _ string) []querykeys.Change {
			return []querykeys.Change{recordChange(c.ID, c.petID)}
		},
		Success: "Ficha médica eliminada exitosamente",
		Failure: "Error al eliminar la ficha médica",
	})
	return s
}

func recordChange(id, petID string) querykeys.Change {
	return querykeys.Change{
		Resource: querykeys.ResourceMedicalRecord,
		ID:       id,
		Scopes:   map[string]string{querykeys.ScopePet: petID},
	}
}

func (s *Service) List(ctx context.Context) querycache.State[[]Record] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]Record]{
		Key: querykeys.MedicalRecords(),
		Fetch: func(ctx context.Context) ([]Record, error) {
			rs, err := s.api.List(ctx)
			SortByDateDesc(rs)
			return rs, err
		},
		Enabled: true,
	})
}

func (s *Service) Get(ctx context.Context, id string) querycache.State[Record] {
	id = strings.TrimSpace(id)
	return querycache.Use(ctx, s.cache, querycache.Query[Record]{
		Key:     querykeys.MedicalRecord(id),
		Fetch:   func(ctx context.Context) (Record, error) { return s.api.Get(ctx, id) },
		Enabled: id != "",
	})
}

func (s *Service) byPetQuery(petID string) querycache.Query[[]Record] {
	petID = strings.TrimSpace(petID)
	return querycache.Query[[]Record]{
		Key: querykeys.MedicalRecordsByPet(petID),
		Fetch: func(ctx context.Context) ([]Record, error) {
			rs, err := s.api.ListByPet(ctx, petID)
			SortByDateDesc(rs)
			return rs, err
		},
		Enabled: petID != "",
	}
}

// ByPet devuelve las fichas de la mascota, la más reciente primero.
func (s *Service) ByPet(ctx context.Context, petID string) querycache.State[[]Record] {
	return querycache.Use(ctx, s.cache, s.byPetQuery(petID))
}

// PrefetchByPet carga el historial en segundo plano, sin esperar.
func (s *Service) PrefetchByPet(ctx context.Context, petID string) {
	querycache.Prefetch(ctx, s.cache, s.byPetQuery(petID))
}

// Latest es la última consulta de la mascota. Se deriva de ByPet, no se guarda.
func (s *Service) Latest(ctx context.Context, petID string) querycache.State[*Record] {
	st := s.ByPet(ctx, petID)
	out := querycache.State[*Record]{
		Err:        st.Err,
		Status:     st.Status,
		IsLoading:  st.IsLoading,
		IsFetching: st.IsFetching,
		IsStale:    st.IsStale,
		UpdatedAt:  st.UpdatedAt,
	}
	if len(st.Data) > 0 {
		r := st.Data[0]
		out.Data = &r
	}
	return out
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	in.PetID = strings.TrimSpace(in.PetID)
	in.Diagnosis = strings.TrimSpace(in.Diagnosis)
	if in.PetID == "" || in.Diagnosis == "" {
		return Record{}, fmt.Errorf("%w: mascota y diagnóstico son obligatorios", apierror.ErrInvalidInput)
	}
	if in.ConsultationDate.IsZero() {
		return Record{}, fmt.Errorf("%w: fecha de consulta obligatoria", apierror.ErrInvalidInput)
	}
	return s.create.Mutate(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	if in.Diagnosis != nil && strings.TrimSpace(*in.Diagnosis) == "" {
		return Record{}, fmt.Errorf("%w: el diagnóstico no puede quedar vacío", apierror.ErrInvalidInput)
	}
	return s.update.Mutate(ctx, updateCommand{ID: id, Input: in, petID: s.petOf(id)})
}

func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: id requerido", apierror.ErrInvalidInput)
	}
	return s.remove.Mutate(ctx, deleteCommand{ID: id, petID: s.petOf(id)})
}

func (s *Service) Pending() bool {
	return s.create.IsPending() || s.update.IsPending() || s.remove.IsPending()
}

// petOf busca en cache la mascota de la ficha para invalidar su lista.
func (s *Service) petOf(id string) string {
	if r, ok := querycache.Peek[Record](s.cache, querykeys.MedicalRecord(id)); ok {
		return r.PetID
	}
	if all, ok := querycache.Peek[[]Record](s.cache, querykeys.MedicalRecords()); ok {
		for _, r := range all {
			if r.ID == id {
				return r.PetID
			}
		}
	}
	return ""
}
