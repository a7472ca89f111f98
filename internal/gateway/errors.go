package gateway

import "errors"

// Kind clasifica todo fallo de red en tres categorías, igual que el
// cliente original: el server respondió mal, no respondió, o algo raro.
type Kind string

const (
	KindServer  Kind = "server"  // respuesta no-2xx
	KindNetwork Kind = "network" // request enviado, sin respuesta
	KindUnknown Kind = "unknown" // cualquier otra cosa
)

// Error es el único shape de error que sale del gateway.
// Los callers nunca ven el error crudo del transporte.
type Error struct {
	Kind    Kind
	Message string
	Status  int // status HTTP; 0 si no hubo respuesta
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// KindOf devuelve la categoría de un error del gateway,
// o KindUnknown si el error no viene de aquí.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUnknown
}

// MessageOf devuelve el mensaje listo para mostrar en UI.
func MessageOf(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

const (
	// Defaults por categoría cuando el server no manda "message".
	defaultNetworkMessage = "no response received from server, check your network connection"
	defaultUnknownMessage = "an unknown error occurred"
)
