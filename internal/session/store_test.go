package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// -------------------------
// Fakes
// -------------------------

type fakeAuth struct {
	token string
	user  User
	err   error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, User, error) {
	if f.err != nil {
		return "", User{}, f.err
	}
	return f.token, f.user, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	snap    Snapshot
	has     bool
	loadErr error
	saveErr error
}

func (f *fakeStorage) Load(ctx context.Context) (Snapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return Snapshot{}, false, f.loadErr
	}
	return f.snap, f.has, nil
}

func (f *fakeStorage) Save(ctx context.Context, snap Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snap = snap
	f.has = true
	return nil
}

func (f *fakeStorage) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = Snapshot{}
	f.has = false
	return nil
}

func (f *fakeStorage) stored() (Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.has
}

// gatedStorage deja el Save bloqueado hasta que el test lo libere,
// para forzar el interleaving login-persistiendo vs logout.
type gatedStorage struct {
	fakeStorage
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStorage) Save(ctx context.Context, snap Snapshot) error {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.fakeStorage.Save(ctx, snap)
}

// -------------------------
// Tests
// -------------------------

func TestLogin_SetsSessionAndPersists(t *testing.T) {
	auth := &fakeAuth{token: "tok-1", user: User{ID: 1, Name: "Ana", Email: "a@b.com", Role: RoleUser}}
	st := &fakeStorage{}
	s := NewStore(auth, st, nil)

	u, err := s.Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != 1 || u.Email != "a@b.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated after login")
	}
	if s.Token() != "tok-1" {
		t.Fatalf("expected token tok-1, got %q", s.Token())
	}

	snap, has := st.stored()
	if !has || snap.Token != "tok-1" || snap.User.ID != 1 {
		t.Fatalf("expected persisted snapshot, got has=%v snap=%+v", has, snap)
	}
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	wantErr := errors.New("invalid credentials")
	s := NewStore(&fakeAuth{err: wantErr}, &fakeStorage{}, nil)

	_, err := s.Login(context.Background(), "a@b.com", "bad")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected login error to surface, got %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatalf("session must stay unauthenticated after failed login")
	}
	if s.Token() != "" {
		t.Fatalf("token must stay empty after failed login")
	}
}

func TestLogout_ClearsSessionAndStorage_Idempotent(t *testing.T) {
	auth := &fakeAuth{token: "tok-1", user: User{ID: 1}}
	st := &fakeStorage{}
	s := NewStore(auth, st, nil)

	if _, err := s.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	s.Logout(context.Background())
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated after logout")
	}
	if _, has := st.stored(); has {
		t.Fatalf("persisted session must be cleared on logout")
	}

	// Segundo logout: no-op, no panics, sigue limpio.
	s.Logout(context.Background())
	if s.IsAuthenticated() {
		t.Fatalf("logout must be idempotent")
	}
}

func TestUpdateUser_MergesAndRepersists(t *testing.T) {
	auth := &fakeAuth{token: "tok-1", user: User{ID: 1, Name: "Ana", Email: "a@b.com"}}
	st := &fakeStorage{}
	s := NewStore(auth, st, nil)

	if _, err := s.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	name := "Ana María"
	phone := "555-0101"
	u, ok := s.UpdateUser(context.Background(), UserPatch{Name: &name, Phone: &phone})
	if !ok {
		t.Fatalf("expected update to apply")
	}
	if u.Name != "Ana María" || u.Phone != "555-0101" {
		t.Fatalf("unexpected merged user: %+v", u)
	}
	if u.Email != "a@b.com" {
		t.Fatalf("untouched fields must survive the merge, got %+v", u)
	}

	snap, has := st.stored()
	if !has || snap.User.Name != "Ana María" {
		t.Fatalf("expected re-persisted user, got %+v", snap)
	}
}

func TestUpdateUser_NoopWhenUnauthenticated(t *testing.T) {
	s := NewStore(&fakeAuth{}, &fakeStorage{}, nil)

	name := "nadie"
	if _, ok := s.UpdateUser(context.Background(), UserPatch{Name: &name}); ok {
		t.Fatalf("update without session must be a no-op")
	}
}

func TestRestore_LoadsPersistedSession(t *testing.T) {
	st := &fakeStorage{
		snap: Snapshot{Token: "tok-9", User: User{ID: 9, Name: "Luis"}},
		has:  true,
	}
	s := NewStore(&fakeAuth{}, st, nil)

	s.Restore(context.Background())
	if !s.IsAuthenticated() {
		t.Fatalf("expected restored session")
	}
	snap, ok := s.Current()
	if !ok || snap.User.ID != 9 {
		t.Fatalf("unexpected restored snapshot: %+v", snap)
	}
}

func TestRestore_SwallowsStorageErrors(t *testing.T) {
	st := &fakeStorage{loadErr: errors.New("disk on fire")}
	s := NewStore(&fakeAuth{}, st, nil)

	s.Restore(context.Background()) // no debe panickear ni fallar
	if s.IsAuthenticated() {
		t.Fatalf("restore failure must leave session unauthenticated")
	}
}

func TestRestore_DiscardsExpiredJWT(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("dev-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	st := &fakeStorage{snap: Snapshot{Token: expired, User: User{ID: 1}}, has: true}
	s := NewStore(&fakeAuth{}, st, nil)

	s.Restore(context.Background())
	if s.IsAuthenticated() {
		t.Fatalf("expired token must not restore a session")
	}
	if _, has := st.stored(); has {
		t.Fatalf("expired snapshot must be cleared from storage")
	}
}

func TestRestore_KeepsOpaqueTokens(t *testing.T) {
	// Un token que no es JWT no se puede inspeccionar: se acepta.
	st := &fakeStorage{snap: Snapshot{Token: "opaque-token", User: User{ID: 2}}, has: true}
	s := NewStore(&fakeAuth{}, st, nil)

	s.Restore(context.Background())
	if !s.IsAuthenticated() {
		t.Fatalf("opaque token must restore the session")
	}
}

func TestLogout_DuringLoginPersist_DoesNotResurrectSession(t *testing.T) {
	st := &gatedStorage{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	auth := &fakeAuth{token: "tok-1", user: User{ID: 1, Name: "Ana"}}
	s := NewStore(auth, st, nil)

	loginDone := make(chan struct{})
	go func() {
		defer close(loginDone)
		_, _ = s.Login(context.Background(), "a@b.com", "secret")
	}()

	// Login quedó a mitad de persistir, con la sección atómica tomada.
	<-st.entered

	logoutDone := make(chan struct{})
	go func() {
		defer close(logoutDone)
		s.Logout(context.Background())
	}()

	// Logout no puede colarse entre la memoria y el storage de Login.
	select {
	case <-logoutDone:
		t.Fatalf("logout completed while login was still persisting")
	case <-time.After(50 * time.Millisecond):
	}

	close(st.release)
	<-loginDone
	<-logoutDone

	// El último en completar fue Logout: memoria y storage limpios.
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated after logout")
	}
	if snap, has := st.stored(); has {
		t.Fatalf("persisted snapshot must not survive logout: %+v", snap)
	}

	// Un proceso nuevo no debe revivir la sesión cerrada.
	s2 := NewStore(auth, st, nil)
	s2.Restore(context.Background())
	if s2.IsAuthenticated() {
		t.Fatalf("restore must not resurrect a logged-out session")
	}
}

func TestUpdateUser_ReturnedExtraMapIsDetached(t *testing.T) {
	auth := &fakeAuth{token: "tok-1", user: User{ID: 1, Name: "Ana"}}
	s := NewStore(auth, &fakeStorage{}, nil)

	if _, err := s.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	u, ok := s.UpdateUser(context.Background(), UserPatch{Extra: map[string]any{"plan": "gold"}})
	if !ok {
		t.Fatalf("expected update to apply")
	}

	// Mutar lo devuelto no debe tocar la copia interna del store.
	u.Extra["plan"] = "hacked"

	snap, ok := s.Current()
	if !ok {
		t.Fatalf("expected session")
	}
	if snap.User.Extra["plan"] != "gold" {
		t.Fatalf("store copy must be isolated from caller mutations: %+v", snap.User.Extra)
	}

	// Y lo que devuelve Current tampoco comparte el mapa.
	snap.User.Extra["plan"] = "also hacked"
	again, _ := s.Current()
	if again.User.Extra["plan"] != "gold" {
		t.Fatalf("Current must hand out a detached Extra map: %+v", again.User.Extra)
	}
}

func TestConcurrentLoginLogout_NeverPartialSession(t *testing.T) {
	auth := &fakeAuth{token: "tok-1", user: User{ID: 1, Name: "Ana"}}
	s := NewStore(auth, &fakeStorage{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Login(context.Background(), "a@b.com", "secret")
		}()
		go func() {
			defer wg.Done()
			s.Logout(context.Background())
		}()
	}
	wg.Wait()

	// Invariante: user presente sii token presente.
	snap, ok := s.Current()
	if ok && snap.User.ID == 0 {
		t.Fatalf("token without user: %+v", snap)
	}
	if !ok && s.Token() != "" {
		t.Fatalf("user cleared but token present")
	}
}

func TestUserJSON_PreservesUnknownFields(t *testing.T) {
	in := []byte(`{"id":3,"name":"Ana","email":"a@b.com","role":"admin","avatar":"x.png","plan":"gold"}`)

	var u User
	if err := json.Unmarshal(in, &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Role != RoleAdmin {
		t.Fatalf("expected admin role, got %q", u.Role)
	}
	if u.Extra["avatar"] != "x.png" || u.Extra["plan"] != "gold" {
		t.Fatalf("unknown fields must land in Extra: %+v", u.Extra)
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round map[string]any
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("round unmarshal: %v", err)
	}
	if round["avatar"] != "x.png" {
		t.Fatalf("extra fields must survive marshal: %v", round)
	}
}
