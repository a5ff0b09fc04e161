package appointments

import (
	"context"
	"time"
)

type API interface {
	List(ctx context.Context) ([]Appointment, error)
	Today(ctx context.Context) ([]Appointment, error)
	ListByStatus(ctx context.Context, status Status) ([]Appointment, error)
	ListByPet(ctx context.Context, petID string) ([]Appointment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Appointment, error)
	ListByVet(ctx context.Context, vetID string) ([]Appointment, error)
	Get(ctx context.Context, id string) (Appointment, error)

	Create(ctx context.Context, in CreateInput) (Appointment, error)
	Update(ctx context.Context, id string, in UpdateInput) (Appointment, error)
	Delete(ctx context.Context, id string) error
	Transition(ctx context.Context, id string, t Transition) (Appointment, error)
}

// OwnerLookup resuelve el dueño de una mascota (lo implementa pets.Service).
type OwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, bool)
}

type CreateInput struct {
	PetID    string    `json:"petId"`
	OwnerID  string    `json:"ownerId"`
	VetID    string    `json:"vetId,omitempty"`
	DateTime time.Time `json:"dateTime"`
	Reason   string    `json:"reason"`
	Notes    string    `json:"notes,omitempty"`
}

type UpdateInput struct {
	VetID    *string    `json:"vetId,omitempty"`
	DateTime *time.Time `json:"dateTime,omitempty"`
	Reason   *string    `json:"reason,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}
