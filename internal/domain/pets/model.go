package pets

// Pet es el perfil de mascota tal como lo sirve el backend.
type Pet struct {
	ID         int    `json:"id,omitempty"`
	CustomerID int    `json:"customer_id,omitempty"`
	Name       string `json:"name"`
	Species    string `json:"species"`
	Breed      string `json:"breed,omitempty"`
	Age        int    `json:"age,omitempty"`
}
