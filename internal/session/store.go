package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"pet-clinic-client/internal/platform/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Store es la única fuente de verdad de "quién está usando la app".
// Todas sus mutaciones (Login, Logout, UpdateUser, Restore) son secciones
// atómicas: nadie observa token sin user ni al revés. Gana el último en
// completar; no hay merge entre operaciones concurrentes.
type Store struct {
	mu    sync.RWMutex
	token string
	user  User

	auth    Authenticator
	storage Storage
	log     logger.Logger
	now     func() time.Time
}

func NewStore(auth Authenticator, storage Storage, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		auth:    auth,
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// Restore intenta cargar la sesión persistida al arrancar el proceso.
// Nunca falla hacia afuera: cualquier problema se loguea y la sesión
// queda sin autenticar. Un token JWT ya vencido se descarta.
func (s *Store) Restore(ctx context.Context) {
	if s.storage == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warn("session restore failed", map[string]any{"error": err.Error()})
		return
	}
	if !ok || strings.TrimSpace(snap.Token) == "" {
		return
	}

	if tokenExpired(snap.Token, s.now()) {
		s.log.Info("stored session expired, discarding", map[string]any{"user_id": snap.User.ID})
		if err := s.storage.Clear(ctx); err != nil {
			s.log.Warn("clear expired session failed", map[string]any{"error": err.Error()})
		}
		return
	}

	s.token = snap.Token
	s.user = cloneUser(snap.User)
}

// Login delega en el authenticator (gateway) y, si sale bien, setea
// token+user de una sola vez y persiste. Si falla, la sesión queda
// exactamente como estaba y el error normalizado sube al caller.
// La llamada de red va fuera del lock; memoria y storage se escriben
// dentro de la misma sección atómica para que el orden de escritura
// persistido no pueda divergir del orden en memoria.
func (s *Store) Login(ctx context.Context, email, password string) (User, error) {
	token, user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	s.token = token
	s.user = cloneUser(user)
	s.persistLocked(ctx, Snapshot{Token: token, User: cloneUser(user)})
	s.mu.Unlock()

	return user, nil
}

// Logout limpia token, user y la copia persistida en una sola sección
// atómica. Idempotente.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return
	}
	s.token = ""
	s.user = User{}

	if s.storage != nil {
		if err := s.storage.Clear(ctx); err != nil {
			s.log.Warn("clear persisted session failed", map[string]any{"error": err.Error()})
		}
	}
}

// UpdateUser hace shallow-merge del patch sobre el user cacheado y
// re-persiste, todo bajo el mismo lock. No-op (ok=false) si no hay
// sesión.
func (s *Store) UpdateUser(ctx context.Context, patch UserPatch) (User, bool) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return User{}, false
	}

	if patch.Name != nil {
		s.user.Name = *patch.Name
	}
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.Phone != nil {
		s.user.Phone = *patch.Phone
	}
	if patch.Address != nil {
		s.user.Address = *patch.Address
	}
	if len(patch.Extra) > 0 {
		if s.user.Extra == nil {
			s.user.Extra = map[string]any{}
		}
		for k, v := range patch.Extra {
			s.user.Extra[k] = v
		}
	}

	updated := cloneUser(s.user)
	s.persistLocked(ctx, Snapshot{Token: s.token, User: cloneUser(s.user)})
	s.mu.Unlock()

	return updated, true
}

// IsAuthenticated es derivado: hay sesión sii hay token.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token implementa gateway.TokenSource. "" si no hay sesión.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current devuelve el snapshot observable de la sesión. El User sale
// copiado: mutarlo no toca el estado interno del store.
func (s *Store) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return Snapshot{}, false
	}
	return Snapshot{Token: s.token, User: cloneUser(s.user)}, true
}

// persistLocked escribe el snapshot en storage. Llamar con s.mu tomado:
// la escritura persistida es parte de la misma sección atómica que la
// escritura en memoria.
func (s *Store) persistLocked(ctx context.Context, snap Snapshot) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Save(ctx, snap); err != nil {
		// La sesión en memoria ya es válida; persistir es best-effort.
		s.log.Warn("persist session failed", map[string]any{"error": err.Error()})
	}
}

// cloneUser copia el user con su mapa Extra, para que store y callers
// nunca compartan el mapa por referencia.
func cloneUser(u User) User {
	if u.Extra != nil {
		ex := make(map[string]any, len(u.Extra))
		for k, v := range u.Extra {
			ex[k] = v
		}
		u.Extra = ex
	}
	return u
}

// tokenExpired revisa el claim exp sin verificar firma (el cliente no
// tiene la key del server). Un token que no parsea como JWT se acepta:
// puede ser un token opaco.
func tokenExpired(tok string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
