package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-clinic-client/internal/gateway"
	"pet-clinic-client/internal/platform/httpclient"
)

func newGateway(t *testing.T, baseURL, token string) *gateway.Gateway {
	t.Helper()

	c, err := httpclient.NewWithBaseURL(baseURL, 2*time.Second)
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	return gateway.New(c, gateway.TokenFunc(func() string { return token }), nil)
}

func TestCall_InjectsBearerWhenTokenPresent(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	g := newGateway(t, ts.URL, "tok-123")
	if err := g.Call(context.Background(), http.MethodGet, "/pets", nil, nil, ""); err != nil {
		t.Fatalf("call: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected Bearer tok-123, got %q", gotAuth)
	}
}

func TestCall_OmitsAuthorizationWhenNoToken(t *testing.T) {
	var hadAuth bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	g := newGateway(t, ts.URL, "")
	if err := g.Call(context.Background(), http.MethodGet, "/pets", nil, nil, ""); err != nil {
		t.Fatalf("call: %v", err)
	}
	if hadAuth {
		t.Fatalf("Authorization header must be omitted without token")
	}
}

func TestCall_ServerError_UsesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"X"}`))
	}))
	defer ts.Close()

	g := newGateway(t, ts.URL, "tok")
	err := g.Call(context.Background(), http.MethodPost, "/pets", map[string]any{}, nil, "failed to create pet")

	var ge *gateway.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *gateway.Error, got %T (%v)", err, err)
	}
	if ge.Kind != gateway.KindServer {
		t.Fatalf("expected server kind, got %s", ge.Kind)
	}
	if ge.Message != "X" {
		t.Fatalf("expected message X, got %q", ge.Message)
	}
	if ge.Status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", ge.Status)
	}
}

func TestCall_ServerError_FallsBackPerEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	g := newGateway(t, ts.URL, "tok")
	err := g.Call(context.Background(), http.MethodGet, "/customers", nil, nil, "failed to fetch customers")

	var ge *gateway.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *gateway.Error, got %T", err)
	}
	if ge.Kind != gateway.KindServer || ge.Message != "failed to fetch customers" {
		t.Fatalf("unexpected error: kind=%s msg=%q", ge.Kind, ge.Message)
	}
}

func TestCall_NetworkError_WhenNoResponse(t *testing.T) {
	// Server cerrado => el request sale pero nadie contesta.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	g := newGateway(t, url, "tok")
	err := g.Call(context.Background(), http.MethodGet, "/pets", nil, nil, "")

	if gateway.KindOf(err) != gateway.KindNetwork {
		t.Fatalf("expected network kind, got %s (%v)", gateway.KindOf(err), err)
	}
	if ge := gateway.MessageOf(err); ge == "" {
		t.Fatalf("network error must carry a default message")
	}
}

func TestCall_UnknownError_OnMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	g := newGateway(t, ts.URL, "tok")
	var out map[string]any
	err := g.Call(context.Background(), http.MethodGet, "/pets", nil, &out, "failed to fetch pets")

	var ge *gateway.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *gateway.Error, got %T", err)
	}
	if ge.Kind != gateway.KindUnknown {
		t.Fatalf("expected unknown kind, got %s", ge.Kind)
	}
}

func TestCall_DecodesJSONResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"Milo"}`))
	}))
	defer ts.Close()

	g := newGateway(t, ts.URL, "tok")

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := g.Call(context.Background(), http.MethodGet, "/pets/7", nil, &out, ""); err != nil {
		t.Fatalf("call: %v", err)
	}
	if out.ID != 7 || out.Name != "Milo" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}
