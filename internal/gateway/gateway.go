package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"pet-clinic-client/internal/platform/httpclient"
	"pet-clinic-client/internal/platform/logger"

	"github.com/google/uuid"
)

// TokenSource entrega el bearer token vigente ("" si no hay sesión).
// Lo implementa el session store; el gateway solo lee.
type TokenSource interface {
	Token() string
}

// TokenFunc adapta una función como TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Gateway es el único punto por donde salen llamadas autorizadas.
// Inyecta el bearer, ejecuta UNA vez (sin retry) y normaliza fallos.
type Gateway struct {
	client *httpclient.Client
	tokens TokenSource
	log    logger.Logger
}

func New(client *httpclient.Client, tokens TokenSource, log logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		client: client,
		tokens: tokens,
		log:    log,
	}
}

// Call ejecuta un request JSON contra el backend.
// - in/out: body a enviar / destino del decode (ambos opcionales).
// - fallback: mensaje por defecto si el server falla sin "message"
//   (cada servicio pasa el suyo, p.ej. "failed to fetch pets").
// Todo fallo se re-lanza como *Error; nunca el error crudo del transporte.
func (g *Gateway) Call(ctx context.Context, method, path string, in, out any, fallback string) error {
	headers := map[string]string{
		"X-Request-ID": uuid.NewString(),
	}

	// Header solo si hay token; jamás "Bearer " vacío.
	if g.tokens != nil {
		if tok := strings.TrimSpace(g.tokens.Token()); tok != "" {
			headers["Authorization"] = "Bearer " + tok
		}
	}

	err := g.client.Do(ctx, method, path, headers, in, out)
	if err == nil {
		return nil
	}

	ge := normalize(err, fallback)
	g.log.Debug("gateway call failed", map[string]any{
		"method": method,
		"path":   path,
		"kind":   string(ge.Kind),
		"status": ge.Status,
	})
	return ge
}

// normalize mapea cualquier error del transporte a la taxonomía de tres
// categorías. Es el equivalente del bloque isAxiosError del cliente
// original: response => server, request => network, resto => unknown.
func normalize(err error, fallback string) *Error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return &Error{
			Kind:    KindServer,
			Message: serverMessage(httpErr.Body, fallback),
			Status:  httpErr.StatusCode,
		}
	}

	var reqErr *httpclient.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			Kind:    KindNetwork,
			Message: defaultNetworkMessage,
		}
	}

	msg := defaultUnknownMessage
	if strings.TrimSpace(fallback) != "" {
		msg = fallback
	}
	return &Error{
		Kind:    KindUnknown,
		Message: msg,
	}
}

// serverMessage prefiere el campo "message" del body; si no viene,
// usa el fallback del endpoint.
func serverMessage(body, fallback string) string {
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err == nil {
		if strings.TrimSpace(resp.Message) != "" {
			return resp.Message
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return defaultUnknownMessage
}
