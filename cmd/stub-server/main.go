package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"pet-clinic-client/internal/stub"
)

// Levanta el backend falso para desarrollar el cliente sin el server
// real. STUB_JWT_SECRET opcional; sin él usa el secret de dev.
func main() {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	srv := stub.New(stub.Options{Secret: os.Getenv("STUB_JWT_SECRET")})

	// Usuario semilla para no tener que registrar en cada arranque.
	if _, ok := srv.SeedUser("Dev User", "dev@local", "dev"); ok {
		log.Printf("seeded dev@local / dev")
	}

	s := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("stub backend listening on %s", addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
