package pets

import "context"

// API es el pet-service visto desde el cliente.
type API interface {
	List(ctx context.Context) ([]Pet, error)
	Get(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	GetByQR(ctx context.Context, code string) (Pet, error)

	Create(ctx context.Context, in CreateInput) (Pet, error)
	Update(ctx context.Context, id string, in UpdateInput) (Pet, error)
	Delete(ctx context.Context, id string) error
}

type CreateInput struct {
	Name    string   `json:"name"`
	Species string   `json:"species"`
	Breed   string   `json:"breed,omitempty"`
	Age     *int     `json:"age,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
	Sex     Sex      `json:"sex"`
	Color   string   `json:"color,omitempty"`
	OwnerID string   `json:"ownerId,omitempty"`
}

// UpdateInput es un PATCH: nil = no tocar.
type UpdateInput struct {
	Name    *string  `json:"name,omitempty"`
	Species *string  `json:"species,omitempty"`
	Breed   *string  `json:"breed,omitempty"`
	Age     *int     `json:"age,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
	Sex     *Sex     `json:"sex,omitempty"`
	Color   *string  `json:"color,omitempty"`
	OwnerID *string  `json:"ownerId,omitempty"`
	Status  *Status  `json:"status,omitempty"`
}
