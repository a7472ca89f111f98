package session

import "encoding/json"

// Role del usuario según el backend.
// @Enum user, admin
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User es el snapshot de perfil que viaja junto al token.
// Extra preserva campos que el backend agregue a futuro sin romper nada
// (el cliente original permitía [key: string]: any).
type User struct {
	ID      int
	Name    string
	Email   string
	Role    Role
	Phone   string
	Address string

	Extra map[string]any
}

// userJSON es el shape wire conocido; el resto cae en Extra.
type userJSON struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (u User) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	for k, v := range u.Extra {
		m[k] = v
	}
	m["id"] = u.ID
	m["name"] = u.Name
	m["email"] = u.Email
	m["role"] = string(u.Role)
	if u.Phone != "" {
		m["phone"] = u.Phone
	}
	if u.Address != "" {
		m["address"] = u.Address
	}
	return json.Marshal(m)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var known userJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range []string{"id", "name", "email", "role", "phone", "address"} {
		delete(all, k)
	}
	if len(all) == 0 {
		all = nil
	}

	*u = User{
		ID:      known.ID,
		Name:    known.Name,
		Email:   known.Email,
		Role:    Role(known.Role),
		Phone:   known.Phone,
		Address: known.Address,
		Extra:   all,
	}
	return nil
}

// UserPatch es un merge parcial sobre el usuario cacheado.
// Punteros para distinguir "no tocar" de "setear vacío".
type UserPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string

	Extra map[string]any
}
