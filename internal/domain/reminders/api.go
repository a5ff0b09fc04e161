package reminders

import (
	"context"
	"time"
)

type API interface {
	List(ctx context.Context) ([]Reminder, error)
	ListPending(ctx context.Context) ([]Reminder, error)
	Get(ctx context.Context, id string) (Reminder, error)

	Create(ctx context.Context, in CreateInput) (Reminder, error)
	Update(ctx context.Context, id string, in UpdateInput) (Reminder, error)
	Delete(ctx context.Context, id string) error

	// Send despacha un recordatorio por WhatsApp; ProcessAll despacha los pendientes.
	Send(ctx context.Context, id string) (Reminder, error)
	ProcessAll(ctx context.Context) (ProcessResult, error)
}

type CreateInput struct {
	Type     Type      `json:"type"`
	Message  string    `json:"message"`
	SendDate time.Time `json:"sendDate"`
	PetID    string    `json:"petId,omitempty"`
	OwnerID  string    `json:"ownerId,omitempty"`
}

type UpdateInput struct {
	Type     *Type      `json:"type,omitempty"`
	Message  *string    `json:"message,omitempty"`
	SendDate *time.Time `json:"sendDate,omitempty"`
	Status   *Status    `json:"status,omitempty"`
}
