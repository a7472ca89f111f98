package records

import (
	"context"
	"net/http"
	"strconv"
)

// Caller es el gateway por donde sale toda llamada autorizada.
type Caller interface {
	Call(ctx context.Context, method, path string, in, out any, fallback string) error
}

// Service expone el CRUD de historias clínicas sobre /appointments.
// Cada método es UNA llamada al gateway; las lecturas pasan por
// FromAppointment y las escrituras por ToAppointment.
type Service struct {
	gw Caller
}

func NewService(gw Caller) *Service {
	return &Service{gw: gw}
}

func (s *Service) List(ctx context.Context) ([]MedicalRecord, error) {
	var wire []Appointment
	if err := s.gw.Call(ctx, http.MethodGet, "/appointments", nil, &wire, "failed to fetch medical records"); err != nil {
		return nil, err
	}

	out := make([]MedicalRecord, 0, len(wire))
	for _, a := range wire {
		out = append(out, FromAppointment(a))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (MedicalRecord, error) {
	var wire Appointment
	if err := s.gw.Call(ctx, http.MethodGet, recordPath(id), nil, &wire, "failed to fetch medical record details"); err != nil {
		return MedicalRecord{}, err
	}
	return FromAppointment(wire), nil
}

func (s *Service) Create(ctx context.Context, r MedicalRecord) (MedicalRecord, error) {
	in := ToAppointment(r)
	in.ID = 0 // lo asigna el server

	var wire Appointment
	if err := s.gw.Call(ctx, http.MethodPost, "/appointments", in, &wire, "failed to create medical record"); err != nil {
		return MedicalRecord{}, err
	}
	return FromAppointment(wire), nil
}

func (s *Service) Update(ctx context.Context, id int, r MedicalRecord) (MedicalRecord, error) {
	in := ToAppointment(r)
	in.ID = 0 // el id va en el path, no en el body

	var wire Appointment
	if err := s.gw.Call(ctx, http.MethodPut, recordPath(id), in, &wire, "failed to update medical record"); err != nil {
		return MedicalRecord{}, err
	}
	return FromAppointment(wire), nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.gw.Call(ctx, http.MethodDelete, recordPath(id), nil, nil, "failed to delete medical record")
}

func recordPath(id int) string {
	return "/appointments/" + strconv.Itoa(id)
}
