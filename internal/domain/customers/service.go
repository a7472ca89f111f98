package customers

import (
	"context"
	"net/http"
	"strconv"
)

// Caller es el gateway por donde sale toda llamada autorizada.
type Caller interface {
	Call(ctx context.Context, method, path string, in, out any, fallback string) error
}

// Service es la fachada CRUD de /customers.
type Service struct {
	gw Caller
}

func NewService(gw Caller) *Service {
	return &Service{gw: gw}
}

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := s.gw.Call(ctx, http.MethodGet, "/customers", nil, &out, "failed to fetch customers"); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (Customer, error) {
	var out Customer
	if err := s.gw.Call(ctx, http.MethodGet, customerPath(id), nil, &out, "failed to fetch customer details"); err != nil {
		return Customer{}, err
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, c Customer) (Customer, error) {
	c.ID = 0 // lo asigna el server

	var out Customer
	if err := s.gw.Call(ctx, http.MethodPost, "/customers", c, &out, "failed to create customer"); err != nil {
		return Customer{}, err
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int, c Customer) (Customer, error) {
	c.ID = 0 // el id va en el path

	var out Customer
	if err := s.gw.Call(ctx, http.MethodPut, customerPath(id), c, &out, "failed to update customer"); err != nil {
		return Customer{}, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.gw.Call(ctx, http.MethodDelete, customerPath(id), nil, nil, "failed to delete customer")
}

func customerPath(id int) string {
	return "/customers/" + strconv.Itoa(id)
}
