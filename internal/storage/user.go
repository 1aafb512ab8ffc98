package storage

import (
	"context"
	"fmt"
)

// UpsertUser сохраняет почту пользователя. Повторный вызов с тем же адресом ничего не меняет.
func (s *Storage) UpsertUser(ctx context.Context, username, email string) error {
	const op = "storage.UpsertUser"

	query := `INSERT INTO users (username, email) VALUES ($1, $2)
			  ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
			  WHERE users.email <> EXCLUDED.email`
	if _, err := s.DB.ExecContext(ctx, query, username, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
