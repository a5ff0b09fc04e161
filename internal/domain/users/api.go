package users

import "context"

// API es el user-service (CRUD de personas).
type API interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	ListVets(ctx context.Context) ([]User, error)
	ListOwners(ctx context.Context) ([]User, error)

	Create(ctx context.Context, in CreateInput) (User, error)
	Update(ctx context.Context, id string, in UpdateInput) (User, error)
	Delete(ctx context.Context, id string) error
}

// CreateInput: la contraseña es obligatoria, no se inventa una por defecto.
type CreateInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Role      Kind   `json:"role"`
}

type UpdateInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	Password  *string `json:"password,omitempty"`
}
