package appointments

import (
	"fmt"
	"strings"
	"time"
)

// Status de la cita. Las transiciones las valida el backend.
// @Enum SCHEDULED, CONFIRMED, COMPLETED, CANCELLED
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID       string    `json:"id"`
	PetID    string    `json:"petId"`
	OwnerID  string    `json:"ownerId"`
	VetID    string    `json:"vetId,omitempty"`
	DateTime time.Time `json:"dateTime"`
	Reason   string    `json:"reason"`
	Status   Status    `json:"status"`
	Notes    string    `json:"notes,omitempty"`
}

// Transition es una de las acciones de estado que expone el backend.
type Transition string

const (
	TransitionConfirm  Transition = "confirm"
	TransitionComplete Transition = "complete"
	TransitionCancel   Transition = "cancel"
)

func (t Transition) Valid() bool {
	return t == TransitionConfirm || t == TransitionComplete || t == TransitionCancel
}

// CombineDateTime arma el instante de la cita a partir de la fecha
// (YYYY-MM-DD) y la hora (HH:MM) que carga el formulario.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("fecha y hora son obligatorias")
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha u hora inválida: %w", err)
	}
	return t, nil
}
