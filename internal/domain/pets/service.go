package pets

import (
	"context"
	"net/http"
	"strconv"
)

// Caller es el gateway por donde sale toda llamada autorizada.
type Caller interface {
	Call(ctx context.Context, method, path string, in, out any, fallback string) error
}

// Service es la fachada CRUD de /pets. Sin cache local: cada List
// refleja el backend al momento de la llamada.
type Service struct {
	gw Caller
}

func NewService(gw Caller) *Service {
	return &Service{gw: gw}
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	var out []Pet
	if err := s.gw.Call(ctx, http.MethodGet, "/pets", nil, &out, "failed to fetch pets"); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (Pet, error) {
	var out Pet
	if err := s.gw.Call(ctx, http.MethodGet, petPath(id), nil, &out, "failed to fetch pet details"); err != nil {
		return Pet{}, err
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, p Pet) (Pet, error) {
	p.ID = 0 // lo asigna el server

	var out Pet
	if err := s.gw.Call(ctx, http.MethodPost, "/pets", p, &out, "failed to create pet"); err != nil {
		return Pet{}, err
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int, p Pet) (Pet, error) {
	p.ID = 0 // el id va en el path

	var out Pet
	if err := s.gw.Call(ctx, http.MethodPut, petPath(id), p, &out, "failed to update pet"); err != nil {
		return Pet{}, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.gw.Call(ctx, http.MethodDelete, petPath(id), nil, nil, "failed to delete pet")
}

// ListByCustomer trae las mascotas de un cliente (GET /customers/{id}/pets).
func (s *Service) ListByCustomer(ctx context.Context, customerID int) ([]Pet, error) {
	var out []Pet
	path := "/customers/" + strconv.Itoa(customerID) + "/pets"
	if err := s.gw.Call(ctx, http.MethodGet, path, nil, &out, "failed to fetch customer pets"); err != nil {
		return nil, err
	}
	return out, nil
}

func petPath(id int) string {
	return "/pets/" + strconv.Itoa(id)
}
