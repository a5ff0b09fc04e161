package clinicapi

import (
	"context"
	"net/http"

	"petcast-web/internal/domain/appointments"
	"petcast-web/internal/platform/httpclient"
)

type AppointmentsClient struct{ c *httpclient.Client }

var _ appointments.API = (*AppointmentsClient)(nil)

type appointmentDTO struct {
	ID       ID     `json:"id"`
	PetID    ID     `json:"petId"`
	OwnerID  ID     `json:"ownerId"`
	VetID    ID     `json:"vetId"`
	DateTime Time   `json:"dateTime"`
	Reason   string `json:"reason"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

func (d appointmentDTO) toDomain() appointments.Appointment {
	return appointments.Appointment{
		ID:       d.ID.String(),
		PetID:    d.PetID.String(),
		OwnerID:  d.OwnerID.String(),
		VetID:    d.VetID.String(),
		DateTime: d.DateTime.Time,
		Reason:   d.Reason,
		Status:   appointments.Status(d.Status),
		Notes:    d.Notes,
	}
}

type appointmentCreateBody struct {
	PetID    ID     `json:"petId"`
	OwnerID  ID     `json:"ownerId"`
	VetID    ID     `json:"vetId,omitempty"`
	DateTime Time   `json:"dateTime"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes,omitempty"`
}

type appointmentUpdateBody struct {
	VetID    *ID     `json:"vetId,omitempty"`
	DateTime *Time   `json:"dateTime,omitempty"`
	Reason   *string `json:"reason,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (a *AppointmentsClient) list(ctx context.Context, parts ...string) ([]appointments.Appointment, error) {
	return getList(ctx, a.c, path(parts...), appointmentDTO.toDomain)
}

func (a *AppointmentsClient) List(ctx context.Context) ([]appointments.Appointment, error) {
	return a.list(ctx, "appointments")
}

func (a *AppointmentsClient) Today(ctx context.Context) ([]appointments.Appointment, error) {
	return a.list(ctx, "appointments", "today")
}

func (a *AppointmentsClient) ListByStatus(ctx context.Context, status appointments.Status) ([]appointments.Appointment, error) {
	return a.list(ctx, "appointments", "status", string(status))
}

func (a *AppointmentsClient) ListByPet(ctx context.Context, petID string) ([]appointments.Appointment, error) {
	return a.list(ctx, "appointments", "pet", petID)
}

func (a *AppointmentsClient) ListByOwner(ctx context.Context, ownerID string) ([]appointments.Appointment, error) {
	return a.list(ctx, "appointments", "owner", ownerID)
}

func (a *AppointmentsClient) ListByVet(ctx context.Context, vetID string) ([]appointments.Appointment, error) {
	return a.list(ctx, "appointments", "vet", vetID)
}

func (a *AppointmentsClient) Get(ctx context.Context, id string) (appointments.Appointment, error) {
	return doOne(ctx, a.c, http.MethodGet, path("appointments", id), nil, appointmentDTO.toDomain)
}

func (a *AppointmentsClient) Create(ctx context.Context, in appointments.CreateInput) (appointments.Appointment, error) {
	body := appointmentCreateBody{
		PetID:    ID(in.PetID),
		OwnerID:  ID(in.OwnerID),
		VetID:    ID(in.VetID),
		DateTime: Time{in.DateTime},
		Reason:   in.Reason,
		Notes:    in.Notes,
	}
	return doOne(ctx, a.c, http.MethodPost, path("appointments"), body, appointmentDTO.toDomain)
}

func (a *AppointmentsClient) Update(ctx context.Context, id string, in appointments.UpdateInput) (appointments.Appointment, error) {
	body := appointmentUpdateBody{
		VetID:    optID(in.VetID),
		DateTime: optTime(in.DateTime),
		Reason:   in.Reason,
		Notes:    in.Notes,
	}
	return doOne(ctx, a.c, http.MethodPatch, path("appointments", id), body, appointmentDTO.toDomain)
}

func (a *AppointmentsClient) Delete(ctx context.Context, id string) error {
	return a.c.Delete(ctx, path("appointments", id))
}

// Transition usa PATCH /appointments/:id/{confirm|complete|cancel}.
func (a *AppointmentsClient) Transition(ctx context.Context, id string, t appointments.Transition) (appointments.Appointment, error) {
	return doOne(ctx, a.c, http.MethodPatch, path("appointments", id, string(t)), nil, appointmentDTO.toDomain)
}
