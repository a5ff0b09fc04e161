// Package querykeys define las keys de cache de cada recurso y el grafo de
// dependencias que dice qué keys invalida una mutación.
package querykeys

import "petcast-web/internal/querycache"

type Key = querycache.Key

// users (user-service)

func Users() Key { return Key{"users"} }
func User(id string) Key { return Key{"users", id} }
func Vets() Key { return Key{"users", "veterinarios"} }
func Owners() Key { return Key{"users", "duenos"} }

// pets (pet-service)

func Pets() Key { return Key{"pets"} }
func Pet(id string) Key { return Key{"pets", id} }
func PetsByOwner(ownerID string) Key { return Key{"pets", "owner", ownerID} }
func PetByQR(code string) Key { return Key{"pets", "qr", code} }

func MedicalRecords() Key { return Key{"medical-records"} }
func MedicalRecord(id string) Key { return Key{"medical-records", id} }
func MedicalRecordsByPet(petID string) Key { return Key{"medical-records", "pet", petID} }

func Reminders() Key { return Key{"reminders"} }
func PendingReminders() Key { return Key{"reminders", "pending"} }
func Reminder(id string) Key { return Key{"reminders", id} }

func WhatsApp() Key { return Key{"whatsapp"} }
func WhatsAppStatus() Key { return Key{"whatsapp", "status"} }
func WhatsAppQR() Key { return Key{"whatsapp", "qr"} }

// appointments (appointment-service)

func Appointments() Key { return Key{"appointments"} }
func Appointment(id string) Key { return Key{"appointments", id} }
func AppointmentsToday() Key { return Key{"appointments", "today"} }
func AppointmentsByStatus(status string) Key { return Key{"appointments", "status", status} }
func AppointmentsByPet(petID string) Key { return Key{"appointments", "pet", petID} }
func AppointmentsByOwner(ownerID string) Key { return Key{"appointments", "owner", ownerID} }
func AppointmentsByVet(vetID string) Key { return Key{"appointments", "vet", vetID} }

// statistics (statistics-service)

func Statistics() Key { return Key{"statistics"} }
func StatisticsSummary() Key { return Key{"statistics", "summary"} }
func StatisticsDashboard() Key { return Key{"statistics", "dashboard"} }
func AppointmentsPerMonth() Key { return Key{"statistics", "citas-por-mes"} }
