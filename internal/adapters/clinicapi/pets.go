package clinicapi

import (
	"context"
	"net/http"

	"petcast-web/internal/domain/pets"
	"petcast-web/internal/platform/httpclient"
)

type PetsClient struct{ c *httpclient.Client }

var _ pets.API = (*PetsClient)(nil)

type petDTO struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Age     *Float `json:"age"`
	Weight  *Float `json:"weight"`
	Sex     string `json:"sex"`
	Color   string `json:"color"`
	QRCode  string `json:"qrCode"`
	OwnerID ID     `json:"ownerId"`
	Status  string `json:"status"`
}

func (d petDTO) toDomain() pets.Pet {
	return pets.Pet{
		ID:      d.ID.String(),
		Name:    d.Name,
		Species: d.Species,
		Breed:   d.Breed,
		Age:     intPtr(d.Age),
		Weight:  floatPtr(d.Weight),
		Sex:     pets.Sex(d.Sex),
		Color:   d.Color,
		QRCode:  d.QRCode,
		OwnerID: d.OwnerID.String(),
		Status:  pets.Status(d.Status),
	}
}

type petCreateBody struct {
	pets.CreateInput
	OwnerID ID `json:"ownerId,omitempty"`
}

type petUpdateBody struct {
	pets.UpdateInput
	OwnerID *ID `json:"ownerId,omitempty"`
}

func (p *PetsClient) List(ctx context.Context) ([]pets.Pet, error) {
	return getList(ctx, p.c, path("pets"), petDTO.toDomain)
}

func (p *PetsClient) Get(ctx context.Context, id string) (pets.Pet, error) {
	return doOne(ctx, p.c, http.MethodGet, path("pets", id), nil, petDTO.toDomain)
}

func (p *PetsClient) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return getList(ctx, p.c, path("pets", "owner", ownerID), petDTO.toDomain)
}

func (p *PetsClient) GetByQR(ctx context.Context, code string) (pets.Pet, error) {
	return doOne(ctx, p.c, http.MethodGet, path("pets", "qr", code), nil, petDTO.toDomain)
}

func (p *PetsClient) Create(ctx context.Context, in pets.CreateInput) (pets.Pet, error) {
	body := petCreateBody{CreateInput: in, OwnerID: ID(in.OwnerID)}
	return doOne(ctx, p.c, http.MethodPost, path("pets"), body, petDTO.toDomain)
}

func (p *PetsClient) Update(ctx context.Context, id string, in pets.UpdateInput) (pets.Pet, error) {
	body := petUpdateBody{UpdateInput: in, OwnerID: optID(in.OwnerID)}
	return doOne(ctx, p.c, http.MethodPatch, path("pets", id), body, petDTO.toDomain)
}

func (p *PetsClient) Delete(ctx context.Context, id string) error {
	return p.c.Delete(ctx, path("pets", id))
}
