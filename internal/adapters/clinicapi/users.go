package clinicapi

import (
	"context"
	"net/http"

	"petcast-web/internal/domain/users"
	"petcast-web/internal/platform/httpclient"
)

type UsersClient struct{ c *httpclient.Client }

var _ users.API = (*UsersClient)(nil)

type userDTO struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Specialty string `json:"specialty"`
	Role      string `json:"role"`
}

func (d userDTO) toDomain() users.User {
	return users.User{
		ID:        d.ID.String(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		Specialty: d.Specialty,
		Role:      d.Role,
	}
}

func (u *UsersClient) List(ctx context.Context) ([]users.User, error) {
	return getList(ctx, u.c, path("users"), userDTO.toDomain)
}

func (u *UsersClient) Get(ctx context.Context, id string) (users.User, error) {
	return doOne(ctx, u.c, http.MethodGet, path("users", id), nil, userDTO.toDomain)
}

func (u *UsersClient) ListVets(ctx context.Context) ([]users.User, error) {
	return getList(ctx, u.c, path("users", "veterinarios"), userDTO.toDomain)
}

func (u *UsersClient) ListOwners(ctx context.Context) ([]users.User, error) {
	return getList(ctx, u.c, path("users", "duenos"), userDTO.toDomain)
}

func (u *UsersClient) Create(ctx context.Context, in users.CreateInput) (users.User, error) {
	return doOne(ctx, u.c, http.MethodPost, path("users"), in, userDTO.toDomain)
}

func (u *UsersClient) Update(ctx context.Context, id string, in users.UpdateInput) (users.User, error) {
	return doOne(ctx, u.c, http.MethodPatch, path("users", id), in, userDTO.toDomain)
}

func (u *UsersClient) Delete(ctx context.Context, id string) error {
	return u.c.Delete(ctx, path("users", id))
}
