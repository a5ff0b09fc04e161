package querykeys

import (
	"strings"

	"petcast-web/internal/querycache"
)

// Resource es el tipo de entidad que modifica una mutación.
type Resource string

const (
	ResourceOwner         Resource = "owner"
	ResourceVet           Resource = "vet"
	ResourcePet           Resource = "pet"
	ResourceMedicalRecord Resource = "medical-record"
	ResourceReminder      Resource = "reminder"
	ResourceAppointment   Resource = "appointment"
	ResourceWhatsApp      Resource = "whatsapp"
)

// Scopes conocidos en Change.Scopes.
const (
	ScopeOwner         = "owner"
	ScopePreviousOwner = "previousOwner"
	ScopePet           = "pet"
	ScopeVet           = "vet"
	ScopeQR            = "qr"
)

// Change describe qué se modificó: recurso, id y las relaciones conocidas
// (dueño, mascota, vet...) que definen las listas filtradas afectadas.
type Change struct {
	Resource Resource
	ID       string
	Scopes   map[string]string
}

func (c Change) scope(name string) string {
	if c.Scopes == nil {
		return ""
	}
	return strings.TrimSpace(c.Scopes[name])
}

// dependent es una forma de query que depende de un recurso.
type dependent func(c Change) []querycache.Target

func list(k Key) dependent {
	return func(Change) []querycache.Target { return []querycache.Target{querycache.Exact(k)} }
}

func tree(k Key) dependent {
	return func(Change) []querycache.Target { return []querycache.Target{querycache.Prefix(k)} }
}

func byID(fn func(string) Key) dependent {
	return func(c Change) []querycache.Target {
		if strings.TrimSpace(c.ID) == "" {
			return nil
		}
		return []querycache.Target{querycache.Exact(fn(c.ID))}
	}
}

// byScope invalida la lista filtrada de cada scope conocido. Si no se
// conoce ninguno, invalida toda la familia (ej. pets/owner/*).
func byScope(fn func(string) Key, family Key, scopes ...string) dependent {
	return func(c Change) []querycache.Target {
		out := make([]querycache.Target, 0, len(scopes))
		for _, s := range scopes {
			if v := c.scope(s); v != "" {
				out = append(out, querycache.Exact(fn(v)))
			}
		}
		if len(out) == 0 {
			out = append(out, querycache.Prefix(family))
		}
		return out
	}
}

// graph declara, una vez por recurso, todas las queries que dependen de él.
var graph = map[Resource][]dependent{
	ResourceOwner: {
		list(Users()),
		list(Owners()),
		byID(User),
		byID(PetsByOwner),
		byID(AppointmentsByOwner),
		tree(Statistics()),
	},
	ResourceVet: {
		list(Users()),
		list(Vets()),
		byID(User),
		byID(AppointmentsByVet),
		tree(Statistics()),
	},
	ResourcePet: {
		list(Pets()),
		byID(Pet),
		byScope(PetsByOwner, Key{"pets", "owner"}, ScopeOwner, ScopePreviousOwner),
		byScope(PetByQR, Key{"pets", "qr"}, ScopeQR),
		tree(Statistics()),
	},
	ResourceMedicalRecord: {
		list(MedicalRecords()),
		byID(MedicalRecord),
		byScope(MedicalRecordsByPet, Key{"medical-records", "pet"}, ScopePet),
	},
	ResourceReminder: {
		list(Reminders()),
		list(PendingReminders()),
		byID(Reminder),
	},
	ResourceAppointment: {
		list(Appointments()),
		list(AppointmentsToday()),
		byID(Appointment),
		tree(Key{"appointments", "status"}),
		byScope(AppointmentsByPet, Key{"appointments", "pet"}, ScopePet),
		byScope(AppointmentsByOwner, Key{"appointments", "owner"}, ScopeOwner),
		byScope(AppointmentsByVet, Key{"appointments", "vet"}, ScopeVet),
		tree(Statistics()),
	},
	ResourceWhatsApp: {
		tree(WhatsApp()),
	},
}

// Affected devuelve, sin duplicados, las keys a invalidar tras los cambios.
func Affected(changes ...Change) []querycache.Target {
	seen := make(map[string]struct{})
	out := make([]querycache.Target, 0)
	for _, c := range changes {
		for _, dep := range graph[c.Resource] {
			for _, t := range dep(c) {
				id := t.Key.String()
				if t.Prefix {
					id += "/*"
				}
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, t)
			}
		}
	}
	return out
}
