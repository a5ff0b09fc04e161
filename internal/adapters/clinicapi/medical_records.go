package clinicapi

import (
	"context"
	"net/http"

	"petcast-web/internal/domain/medicalrecords"
	"petcast-web/internal/platform/httpclient"
)

type MedicalRecordsClient struct{ c *httpclient.Client }

var _ medicalrecords.API = (*MedicalRecordsClient)(nil)

type recordDTO struct {
	ID               ID     `json:"id"`
	PetID            ID     `json:"petId"`
	ConsultationDate Time   `json:"consultationDate"`
	Diagnosis        string `json:"diagnosis"`
	Treatment        string `json:"treatment"`
	Observations     string `json:"observations"`
}

func (d recordDTO) toDomain() medicalrecords.Record {
	return medicalrecords.Record{
		ID:               d.ID.String(),
		PetID:            d.PetID.String(),
		ConsultationDate: d.ConsultationDate.Time,
		Diagnosis:        d.Diagnosis,
		Treatment:        d.Treatment,
		Observations:     d.Observations,
	}
}

type recordCreateBody struct {
	medicalrecords.CreateInput
	PetID ID `json:"petId"`
}

func (m *MedicalRecordsClient) List(ctx context.Context) ([]medicalrecords.Record, error) {
	return getList(ctx, m.c, path("medical-records"), recordDTO.toDomain)
}

func (m *MedicalRecordsClient) Get(ctx context.Context, id string) (medicalrecords.Record, error) {
	return doOne(ctx, m.c, http.MethodGet, path("medical-records", id), nil, recordDTO.toDomain)
}

func (m *MedicalRecordsClient) ListByPet(ctx context.Context, petID string) ([]medicalrecords.Record, error) {
	return getList(ctx, m.c, path("medical-records", "pet", petID), recordDTO.toDomain)
}

func (m *MedicalRecordsClient) Create(ctx context.Context, in medicalrecords.CreateInput) (medicalrecords.Record, error) {
	body := recordCreateBody{CreateInput: in, PetID: ID(in.PetID)}
	return doOne(ctx, m.c, http.MethodPost, path("medical-records"), body, recordDTO.toDomain)
}

func (m *MedicalRecordsClient) Update(ctx context.Context, id string, in medicalrecords.UpdateInput) (medicalrecords.Record, error) {
	return doOne(ctx, m.c, http.MethodPatch, path("medical-records", id), in, recordDTO.toDomain)
}

func (m *MedicalRecordsClient) Delete(ctx context.Context, id string) error {
	return m.c.Delete(ctx, path("medical-records", id))
}
