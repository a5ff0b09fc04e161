package pets

// Sex define el sexo de la mascota.
// @Enum MALE, FEMALE
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

func (s Sex) Valid() bool { return s == SexMale || s == SexFemale }

// Status de la ficha de la mascota.
// @Enum ACTIVE, INACTIVE
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) Valid() bool { return s == StatusActive || s == StatusInactive }

// Pet es la mascota tal como la expone el pet-service.
// QRCode lo asigna el backend y no cambia.
type Pet struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Species string   `json:"species"`
	Breed   string   `json:"breed,omitempty"`
	Age     *int     `json:"age,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
	Sex     Sex      `json:"sex"`
	Color   string   `json:"color,omitempty"`
	QRCode  string   `json:"qrCode,omitempty"`
	OwnerID string   `json:"ownerId,omitempty"`
	Status  Status   `json:"status,omitempty"`
}
