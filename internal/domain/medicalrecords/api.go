package medicalrecords

import (
	"context"
	"time"
)

type API interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	ListByPet(ctx context.Context, petID string) ([]Record, error)

	Create(ctx context.Context, in CreateInput) (Record, error)
	Update(ctx context.Context, id string, in UpdateInput) (Record, error)
	Delete(ctx context.Context, id string) error
}

type CreateInput struct {
	PetID            string    `json:"petId"`
	ConsultationDate time.Time `json:"consultationDate"`
	Diagnosis        string    `json:"diagnosis"`
	Treatment        string    `json:"treatment,omitempty"`
	Observations     string    `json:"observations,omitempty"`
}

type UpdateInput struct {
	ConsultationDate *time.Time `json:"consultationDate,omitempty"`
	Diagnosis        *string    `json:"diagnosis,omitempty"`
	Treatment        *string    `json:"treatment,omitempty"`
	Observations     *string    `json:"observations,omitempty"`
}
