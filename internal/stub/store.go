package stub

import (
	"sort"
	"strings"
	"sync"

	"pet-clinic-client/internal/domain/customers"
	"pet-clinic-client/internal/domain/pets"
	"pet-clinic-client/internal/domain/records"
	"pet-clinic-client/internal/session"
)

type userRecord struct {
	User     session.User
	Password string
}

// store es el estado in-memory del backend falso. Mismo rol que los
// repos de memoria de dev: ids autoincrementales, mutex simple.
type store struct {
	mu sync.Mutex

	users     map[int]userRecord
	pets      map[int]pets.Pet
	customers map[int]customers.Customer
	appts     map[int]records.Appointment

	nextID int
}

func newStore() *store {
	return &store{
		users:     map[int]userRecord{},
		pets:      map[int]pets.Pet{},
		customers: map[int]customers.Customer{},
		appts:     map[int]records.Appointment{},
		nextID:    1,
	}
}

func (s *store) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *store) createUser(name, email, password string) (session.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.User.Email, email) {
			return session.User{}, false
		}
	}

	u := session.User{
		ID:    s.id(),
		Name:  name,
		Email: email,
		Role:  session.RoleUser,
	}
	s.users[u.ID] = userRecord{User: u, Password: password}
	return u, true
}

func (s *store) findByCredentials(email, password string) (session.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.User.Email, email) && u.Password == password {
			return u.User, true
		}
	}
	return session.User{}, false
}

func (s *store) getUser(id int) (userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *store) putUser(rec userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[rec.User.ID] = rec
}

func (s *store) createPet(p pets.Pet) pets.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.pets[p.ID] = p
	return p
}

func (s *store) listPets() []pets.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]pets.Pet, 0, len(s.pets))
	for _, p := range s.pets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) listPetsByCustomer(customerID int) []pets.Pet {
	all := s.listPets()
	out := make([]pets.Pet, 0)
	for _, p := range all {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}

func (s *store) getPet(id int) (pets.Pet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[id]
	return p, ok
}

func (s *store) updatePet(id int, p pets.Pet) (pets.Pet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[id]; !ok {
		return pets.Pet{}, false
	}
	p.ID = id
	s.pets[id] = p
	return p, true
}

func (s *store) deletePet(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[id]; !ok {
		return false
	}
	delete(s.pets, id)
	return true
}

func (s *store) createCustomer(c customers.Customer) customers.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.customers[c.ID] = c
	return c
}

func (s *store) listCustomers() []customers.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]customers.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) getCustomer(id int) (customers.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	return c, ok
}

func (s *store) updateCustomer(id int, c customers.Customer) (customers.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return customers.Customer{}, false
	}
	c.ID = id
	s.customers[id] = c
	return c, true
}

func (s *store) deleteCustomer(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return false
	}
	delete(s.customers, id)
	return true
}

func (s *store) createAppointment(a records.Appointment) records.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	s.appts[a.ID] = a
	return s.decorateLocked(a)
}

func (s *store) listAppointments() []records.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]records.Appointment, 0, len(s.appts))
	for _, a := range s.appts {
		out = append(out, s.decorateLocked(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) getAppointment(id int) (records.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appts[id]
	if !ok {
		return records.Appointment{}, false
	}
	return s.decorateLocked(a), true
}

func (s *store) updateAppointment(id int, a records.Appointment) (records.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appts[id]; !ok {
		return records.Appointment{}, false
	}
	a.ID = id
	s.appts[id] = a
	return s.decorateLocked(a), true
}

func (s *store) deleteAppointment(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appts[id]; !ok {
		return false
	}
	delete(s.appts, id)
	return true
}

// decorateLocked agrega los campos display que el backend real popula
// en lecturas (petName, customerName). Llamar con s.mu tomado.
func (s *store) decorateLocked(a records.Appointment) records.Appointment {
	if p, ok := s.pets[a.PetID]; ok {
		a.PetName = p.Name
	}
	if c, ok := s.customers[a.CustomerID]; ok {
		a.CustomerName = c.Name
	}
	return a
}
