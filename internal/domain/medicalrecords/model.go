package medicalrecords

import (
	"sort"
	"time"
)

// Record es una ficha médica (consulta) de una mascota.
type Record struct {
	ID               string    `json:"id"`
	PetID            string    `json:"petId"`
	ConsultationDate time.Time `json:"consultationDate"`
	Diagnosis        string    `json:"diagnosis"`
	Treatment        string    `json:"treatment,omitempty"`
	Observations     string    `json:"observations,omitempty"`
}

// SortByDateDesc ordena de la consulta más reciente a la más vieja.
func SortByDateDesc(rs []Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].ConsultationDate.After(rs[j].ConsultationDate)
	})
}
