package statistics

// Summary son los contadores globales de la clínica.
type Summary struct {
	TotalPets         int `json:"totalPets"`
	TotalOwners       int `json:"totalOwners"`
	TotalVets         int `json:"totalVets"`
	TotalAppointments int `json:"totalAppointments"`
	AppointmentsToday int `json:"appointmentsToday"`
	PendingReminders  int `json:"pendingReminders"`
}

type Dashboard struct {
	Summary
	AppointmentsByStatus map[string]int `json:"appointmentsByStatus"`
	PetsBySpecies        map[string]int `json:"petsBySpecies"`
}

// MonthCount: citas de un mes, Month en formato YYYY-MM.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
