package session

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("session: unknown role")

// Role es cerrado: agregar uno implica una sola entrada en roleTable.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleVet   Role = "VET"
	RoleOwner Role = "OWNER"
)

// Tab es una entrada de navegación.
type Tab struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Capabilities es lo que un rol puede ver.
type Capabilities struct {
	DefaultPath string
	RoutePrefix string
	Tabs        []Tab
}

var roleTable = map[Role]Capabilities{
	RoleAdmin: {
		DefaultPath: "/admin",
		RoutePrefix: "/admin",
		Tabs: []Tab{
			{Label: "Inicio", Path: "/admin"},
			{Label: "Dueños", Path: "/admin/owners"},
			{Label: "Veterinarios", Path: "/admin/vets"},
			{Label: "Mascotas", Path: "/admin/pets"},
			{Label: "Citas", Path: "/admin/appointments"},
			{Label: "Fichas médicas", Path: "/admin/medical-records"},
			{Label: "Recordatorios", Path: "/admin/reminders"},
			{Label: "WhatsApp", Path: "/admin/whatsapp"},
			{Label: "Estadísticas", Path: "/admin/statistics"},
		},
	},
	RoleVet: {
		DefaultPath: "/vet",
		RoutePrefix: "/vet",
		Tabs: []Tab{
			{Label: "Inicio", Path: "/vet"},
			{Label: "Citas", Path: "/vet/appointments"},
			{Label: "Pacientes", Path: "/vet/pets"},
			{Label: "Fichas médicas", Path: "/vet/medical-records"},
		},
	},
	RoleOwner: {
		DefaultPath: "/owner",
		RoutePrefix: "/owner",
		Tabs: []Tab{
			{Label: "Inicio", Path: "/owner"},
			{Label: "Mis mascotas", Path: "/owner/pets"},
			{Label: "Mis citas", Path: "/owner/appointments"},
		},
	},
}

// Roles devuelve los roles soportados en orden fijo.
func Roles() []Role { return []Role{RoleAdmin, RoleVet, RoleOwner} }

func (r Role) Valid() bool {
	_, ok := roleTable[r]
	return ok
}

// Capabilities devuelve una copia; se calcula en cada request.
func (r Role) Capabilities() (Capabilities, bool) {
	c, ok := roleTable[r]
	if !ok {
		return Capabilities{}, false
	}
	c.Tabs = append([]Tab(nil), c.Tabs...)
	return c, true
}

func (r Role) DefaultPath() string {
	c, _ := r.Capabilities()
	return c.DefaultPath
}

func (r Role) Tabs() []Tab {
	c, _ := r.Capabilities()
	return c.Tabs
}

// CanAccess reporta si path cae dentro del área del rol.
func (r Role) CanAccess(path string) bool {
	c, ok := roleTable[r]
	if !ok {
		return false
	}
	return path == c.RoutePrefix || strings.HasPrefix(path, c.RoutePrefix+"/")
}

// ParseBackendRole traduce los nombres de rol del user-service.
func ParseBackendRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN", "ADMINISTRADOR":
		return RoleAdmin, nil
	case "VETERINARIO", "VET", "VETERINARIAN":
		return RoleVet, nil
	case "DUENO", "DUEÑO", "OWNER", "CLIENTE":
		return RoleOwner, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}
