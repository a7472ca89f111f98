package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pet-clinic-client/internal/session"
)

// SessionStore persiste el snapshot de sesión en la tabla
// client_sessions, uno por device_id. Schema esperado:
//
//	CREATE TABLE client_sessions (
//	    device_id  text PRIMARY KEY,
//	    token      text NOT NULL,
//	    user_data  jsonb NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);
type SessionStore struct {
	db       *sql.DB
	deviceID string
}

func NewSessionStore(db *sql.DB, deviceID string) (*SessionStore, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, errors.New("postgres session store: device id required")
	}
	return &SessionStore{db: db, deviceID: deviceID}, nil
}

func (s *SessionStore) Load(ctx context.Context) (session.Snapshot, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, user_data
		FROM client_sessions
		WHERE device_id = $1
	`, s.deviceID)

	var token string
	var userData []byte
	if err := row.Scan(&token, &userData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Snapshot{}, false, nil
		}
		return session.Snapshot{}, false, fmt.Errorf("load session: %w", err)
	}

	var u session.User
	if err := json.Unmarshal(userData, &u); err != nil {
		return session.Snapshot{}, false, fmt.Errorf("load session: decode user: %w", err)
	}

	return session.Snapshot{Token: token, User: u}, true, nil
}

func (s *SessionStore) Save(ctx context.Context, snap session.Snapshot) error {
	userData, err := json.Marshal(snap.User)
	if err != nil {
		return fmt.Errorf("save session: encode user: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO client_sessions (device_id, token, user_data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (device_id) DO UPDATE
		SET token = EXCLUDED.token,
		    user_data = EXCLUDED.user_data,
		    updated_at = now()
	`, s.deviceID, snap.Token, userData)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM client_sessions WHERE device_id = $1
	`, s.deviceID)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
