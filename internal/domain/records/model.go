package records

// MedicalRecord es la entidad que la app muestra al usuario.
// El backend no tiene un recurso dedicado: viaja como "appointment"
// genérico y los campos extra van codificados dentro de notes.
type MedicalRecord struct {
	ID int // 0 = todavía no creado

	PetID      int
	CustomerID int

	Date string // timestamp ISO-8601, tal cual lo maneja el backend

	Diagnosis string
	Service   string
	Clinic    string
	Notes     string

	// Campos display que el server agrega en lecturas.
	PetName string
	Owner   string
}

// Appointment es la representación wire (recurso genérico del backend).
type Appointment struct {
	ID           int    `json:"id,omitempty"`
	PetID        int    `json:"pet_id"`
	CustomerID   int    `json:"customer_id"`
	Date         string `json:"appointment_date"`
	Service      string `json:"service"`
	Notes        string `json:"notes"`
	PetName      string `json:"petName,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
}
