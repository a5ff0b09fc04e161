package reminders

import "time"

// Type del recordatorio.
// @Enum UPCOMING_APPOINTMENT, VACCINATION, CHECKUP
type Type string

const (
	TypeUpcomingAppointment Type = "UPCOMING_APPOINTMENT"
	TypeVaccination         Type = "VACCINATION"
	TypeCheckup             Type = "CHECKUP"
)

func (t Type) Valid() bool {
	switch t {
	case TypeUpcomingAppointment, TypeVaccination, TypeCheckup:
		return true
	}
	return false
}

// Status lo maneja el backend (PENDING, SENT, FAILED...); el cliente no lo valida.
type Status string

const StatusPending Status = "PENDING"

type Reminder struct {
	ID       string    `json:"id"`
	Type     Type      `json:"type"`
	Message  string    `json:"message"`
	SendDate time.Time `json:"sendDate"`
	Status   Status    `json:"status,omitempty"`
	PetID    string    `json:"petId,omitempty"`
	OwnerID  string    `json:"ownerId,omitempty"`
}

// ProcessResult es la respuesta de /reminders/process-all.
type ProcessResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}
