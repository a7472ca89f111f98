package customers

// Customer es el cliente (dueño de mascotas) tal como lo sirve el backend.
type Customer struct {
	ID      int    `json:"id,omitempty"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}
