package users

// Kind es el rol con el que el user-service guarda a la persona.
type Kind string

const (
	KindOwner Kind = "DUENO"
	KindVet   Kind = "VETERINARIO"
	KindAdmin Kind = "ADMIN"
)

// User cubre dueños y veterinarios; Address aplica a dueños y Specialty a vets.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Role      string `json:"role,omitempty"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
