package session

import "context"

// Snapshot es el par token+user que se persiste y se restaura.
// Invariante: o viene completo o no viene; nunca token sin user.
type Snapshot struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Storage persiste el snapshot de sesión entre operaciones.
// La implementación baseline es in-memory (vida del proceso);
// adapters/storage/postgres ofrece la variante durable.
type Storage interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}

// Authenticator es la llamada de login que el store delega al gateway
// (la implementa el servicio de cuenta).
type Authenticator interface {
	Login(ctx context.Context, email, password string) (token string, user User, err error)
}
