package records

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// -------------------------
// Fake gateway
// -------------------------

type call struct {
	method string
	path   string
	in     any
}

type fakeCaller struct {
	calls []call
	out   any // se copia al out del caller vía el respond func
	err   error

	respond func(out any)
}

func (f *fakeCaller) Call(ctx context.Context, method, path string, in, out any, fallback string) error {
	f.calls = append(f.calls, call{method: method, path: path, in: in})
	if f.err != nil {
		return f.err
	}
	if f.respond != nil && out != nil {
		f.respond(out)
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestCreate_EncodesTagsIntoWireNotes(t *testing.T) {
	gw := &fakeCaller{}
	svc := NewService(gw)

	_, _ = svc.Create(context.Background(), MedicalRecord{
		PetID:      3,
		CustomerID: 5,
		Diagnosis:  "Flu",
		Clinic:     "Clinic A",
		Notes:      "follow up",
	})

	if len(gw.calls) != 1 {
		t.Fatalf("expected exactly one gateway call, got %d", len(gw.calls))
	}
	c := gw.calls[0]
	if c.method != "POST" || c.path != "/appointments" {
		t.Fatalf("unexpected call: %s %s", c.method, c.path)
	}

	a, ok := c.in.(Appointment)
	if !ok {
		t.Fatalf("expected Appointment payload, got %T", c.in)
	}
	if a.ID != 0 {
		t.Fatalf("create must not send an id, got %d", a.ID)
	}
	if !strings.HasPrefix(a.Notes, "Diagnosis: Flu\nClinic: Clinic A\n") {
		t.Fatalf("tags must lead the wire notes, got %q", a.Notes)
	}
	if !strings.HasSuffix(a.Notes, "follow up") {
		t.Fatalf("user notes must follow verbatim, got %q", a.Notes)
	}
}

func TestGetByID_DecodesWireAppointment(t *testing.T) {
	gw := &fakeCaller{
		respond: func(out any) {
			*(out.(*Appointment)) = Appointment{
				ID:    7,
				Notes: "Diagnosis: Otitis\nClinic: Vet Sur\ncontrol",
			}
		},
	}
	svc := NewService(gw)

	got, err := svc.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gw.calls[0].method != "GET" || gw.calls[0].path != "/appointments/7" {
		t.Fatalf("unexpected call: %+v", gw.calls[0])
	}
	if got.Diagnosis != "Otitis" || got.Clinic != "Vet Sur" {
		t.Fatalf("decode failed: %+v", got)
	}
}

func TestList_RunsEveryItemThroughDecode(t *testing.T) {
	gw := &fakeCaller{
		respond: func(out any) {
			*(out.(*[]Appointment)) = []Appointment{
				{ID: 1, Notes: "Diagnosis: Flu\nClinic: A\n"},
				{ID: 2, Notes: "nota ajena"},
			}
		},
	}
	svc := NewService(gw)

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].Diagnosis != "Flu" {
		t.Fatalf("tagged item must decode: %+v", list[0])
	}
	if list[1].Diagnosis != Unknown || list[1].Clinic != Unknown {
		t.Fatalf("untagged item must degrade to unknown: %+v", list[1])
	}
}

func TestService_PropagatesGatewayErrorUnchanged(t *testing.T) {
	wantErr := errors.New("server: failed to fetch medical records")
	svc := NewService(&fakeCaller{err: wantErr})

	_, err := svc.List(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("service must propagate the gateway error as-is, got %v", err)
	}
}

func TestUpdate_SendsIDInPathOnly(t *testing.T) {
	gw := &fakeCaller{}
	svc := NewService(gw)

	_, _ = svc.Update(context.Background(), 9, MedicalRecord{ID: 9, Diagnosis: "Flu", Clinic: "A"})

	c := gw.calls[0]
	if c.method != "PUT" || c.path != "/appointments/9" {
		t.Fatalf("unexpected call: %s %s", c.method, c.path)
	}
	if a := c.in.(Appointment); a.ID != 0 {
		t.Fatalf("id must travel in the path, not the body: %+v", a)
	}
}

func TestDelete_SingleCall(t *testing.T) {
	gw := &fakeCaller{}
	svc := NewService(gw)

	if err := svc.Delete(context.Background(), 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(gw.calls) != 1 || gw.calls[0].method != "DELETE" || gw.calls[0].path != "/appointments/4" {
		t.Fatalf("unexpected calls: %+v", gw.calls)
	}
}
