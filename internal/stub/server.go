package stub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-clinic-client/internal/domain/customers"
	"pet-clinic-client/internal/domain/pets"
	"pet-clinic-client/internal/domain/records"
	"pet-clinic-client/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Server es un backend falso que implementa el contrato wire que el
// cliente consume (user, pets, customers, appointments). Sirve para
// desarrollar y testear sin el backend real.
type Server struct {
	secret string
	store  *store
	now    func() time.Time
}

type Options struct {
	// Secret firma los JWT de login. Si viene vacío se usa uno de dev.
	Secret string
}

func New(opts Options) *Server {
	secret := strings.TrimSpace(opts.Secret)
	if secret == "" {
		secret = "dev-secret"
	}
	return &Server{
		secret: secret,
		store:  newStore(),
		now:    time.Now,
	}
}

// Handler arma el router chi con todos los endpoints del contrato.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/user/register", s.registerHandler)
	r.Post("/user/login", s.loginHandler)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)

		pr.Put("/user/{userID}", s.updateProfileHandler)
		pr.Put("/user/{userID}/change-password", s.changePasswordHandler)

		pr.Route("/pets", func(rr chi.Router) {
			rr.Get("/", s.listPetsHandler)
			rr.Post("/", s.createPetHandler)
			rr.Get("/{id}", s.getPetHandler)
			rr.Put("/{id}", s.updatePetHandler)
			rr.Delete("/{id}", s.deletePetHandler)
		})

		pr.Route("/customers", func(rr chi.Router) {
			rr.Get("/", s.listCustomersHandler)
			rr.Post("/", s.createCustomerHandler)
			rr.Get("/{id}", s.getCustomerHandler)
			rr.Put("/{id}", s.updateCustomerHandler)
			rr.Delete("/{id}", s.deleteCustomerHandler)
			rr.Get("/{id}/pets", s.listCustomerPetsHandler)
		})

		pr.Route("/appointments", func(rr chi.Router) {
			rr.Get("/", s.listAppointmentsHandler)
			rr.Post("/", s.createAppointmentHandler)
			rr.Get("/{id}", s.getAppointmentHandler)
			rr.Put("/{id}", s.updateAppointmentHandler)
			rr.Delete("/{id}", s.deleteAppointmentHandler)
		})
	})

	return r
}

// -------------------------
// user
// -------------------------

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		writeMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, ok := s.store.createUser(strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Password)
	if !ok {
		writeMessage(w, http.StatusConflict, "email already registered")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    u,
		"message": "account created",
	})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, ok := s.store.findByCredentials(strings.TrimSpace(req.Email), req.Password)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	tok, err := s.issueToken(u.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": tok,
		"user":  u,
	})
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	rec, found := s.store.getUser(id)
	if !found {
		writeMessage(w, http.StatusNotFound, "user not found")
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.Name != nil {
		rec.User.Name = *req.Name
	}
	if req.Phone != nil {
		rec.User.Phone = *req.Phone
	}
	if req.Address != nil {
		rec.User.Address = *req.Address
	}
	s.store.putUser(rec)

	writeJSON(w, http.StatusOK, map[string]any{"user": rec.User})
}

func (s *Server) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	rec, found := s.store.getUser(id)
	if !found {
		writeMessage(w, http.StatusNotFound, "user not found")
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.CurrentPassword != rec.Password {
		writeMessage(w, http.StatusBadRequest, "current password is incorrect")
		return
	}
	if req.NewPassword == "" || req.NewPassword != req.ConfirmPassword {
		writeMessage(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	rec.Password = req.NewPassword
	s.store.putUser(rec)

	writeMessage(w, http.StatusOK, "password changed")
}

// -------------------------
// pets
// -------------------------

func (s *Server) listPetsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listPets())
}

func (s *Server) createPetHandler(w http.ResponseWriter, r *http.Request) {
	var p pets.Pet
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.createPet(p))
}

func (s *Server) getPetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, found := s.store.getPet(id)
	if !found {
		writeMessage(w, http.StatusNotFound, "pet not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updatePetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p pets.Pet
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, found := s.store.updatePet(id, p)
	if !found {
		writeMessage(w, http.StatusNotFound, "pet not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deletePetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !s.store.deletePet(id) {
		writeMessage(w, http.StatusNotFound, "pet not found")
		return
	}
	writeMessage(w, http.StatusOK, "pet deleted")
}

// -------------------------
// customers
// -------------------------

func (s *Server) listCustomersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listCustomers())
}

func (s *Server) createCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var c customers.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(c.Name) == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.createCustomer(c))
}

func (s *Server) getCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, found := s.store.getCustomer(id)
	if !found {
		writeMessage(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var c customers.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, found := s.store.updateCustomer(id, c)
	if !found {
		writeMessage(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !s.store.deleteCustomer(id) {
		writeMessage(w, http.StatusNotFound, "customer not found")
		return
	}
	writeMessage(w, http.StatusOK, "customer deleted")
}

func (s *Server) listCustomerPetsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, found := s.store.getCustomer(id); !found {
		writeMessage(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, s.store.listPetsByCustomer(id))
}

// -------------------------
// appointments
// -------------------------

func (s *Server) listAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listAppointments())
}

func (s *Server) createAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var a records.Appointment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if a.PetID == 0 || a.CustomerID == 0 {
		writeMessage(w, http.StatusBadRequest, "pet_id and customer_id are required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.createAppointment(a))
}

func (s *Server) getAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	a, found := s.store.getAppointment(id)
	if !found {
		writeMessage(w, http.StatusNotFound, "appointment not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) updateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var a records.Appointment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, found := s.store.updateAppointment(id, a)
	if !found {
		writeMessage(w, http.StatusNotFound, "appointment not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !s.store.deleteAppointment(id) {
		writeMessage(w, http.StatusNotFound, "appointment not found")
		return
	}
	writeMessage(w, http.StatusOK, "appointment deleted")
}

// -------------------------
// helpers
// -------------------------

// SeedUser registra un usuario directo al store (para tests y dev).
func (s *Server) SeedUser(name, email, password string) (session.User, bool) {
	return s.store.createUser(name, email, password)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
