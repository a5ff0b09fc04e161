package clinicapi

import (
	"context"
	"net/http"

	"petcast-web/internal/domain/reminders"
	"petcast-web/internal/platform/httpclient"
)

type RemindersClient struct{ c *httpclient.Client }

var _ reminders.API = (*RemindersClient)(nil)

type reminderDTO struct {
	ID       ID     `json:"id"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	SendDate Time   `json:"sendDate"`
	Status   string `json:"status"`
	PetID    ID     `json:"petId"`
	OwnerID  ID     `json:"ownerId"`
}

func (d reminderDTO) toDomain() reminders.Reminder {
	return reminders.Reminder{
		ID:       d.ID.String(),
		Type:     reminders.Type(d.Type),
		Message:  d.Message,
		SendDate: d.SendDate.Time,
		Status:   reminders.Status(d.Status),
		PetID:    d.PetID.String(),
		OwnerID:  d.OwnerID.String(),
	}
}

type reminderCreateBody struct {
	reminders.CreateInput
	PetID   ID `json:"petId,omitempty"`
	OwnerID ID `json:"ownerId,omitempty"`
}

type processResultDTO struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

func (r *RemindersClient) List(ctx context.Context) ([]reminders.Reminder, error) {
	return getList(ctx, r.c, path("reminders"), reminderDTO.toDomain)
}

func (r *RemindersClient) ListPending(ctx context.Context) ([]reminders.Reminder, error) {
	return getList(ctx, r.c, path("reminders", "pending"), reminderDTO.toDomain)
}

func (r *RemindersClient) Get(ctx context.Context, id string) (reminders.Reminder, error) {
	return doOne(ctx, r.c, http.MethodGet, path("reminders", id), nil, reminderDTO.toDomain)
}

func (r *RemindersClient) Create(ctx context.Context, in reminders.CreateInput) (reminders.Reminder, error) {
	body := reminderCreateBody{CreateInput: in, PetID: ID(in.PetID), OwnerID: ID(in.OwnerID)}
	return doOne(ctx, r.c, http.MethodPost, path("reminders"), body, reminderDTO.toDomain)
}

func (r *RemindersClient) Update(ctx context.Context, id string, in reminders.UpdateInput) (reminders.Reminder, error) {
	return doOne(ctx, r.c, http.MethodPatch, path("reminders", id), in, reminderDTO.toDomain)
}

func (r *RemindersClient) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, path("reminders", id))
}

func (r *RemindersClient) Send(ctx context.Context, id string) (reminders.Reminder, error) {
	return doOne(ctx, r.c, http.MethodPost, path("reminders", id, "send"), nil, reminderDTO.toDomain)
}

func (r *RemindersClient) ProcessAll(ctx context.Context) (reminders.ProcessResult, error) {
	return doOne(ctx, r.c, http.MethodPost, path("reminders", "process-all"), nil, func(d processResultDTO) reminders.ProcessResult {
		return reminders.ProcessResult(d)
	})
}
