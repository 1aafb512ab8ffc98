// Package storage реализует хранилище данных на основе PostgreSQL
// для подписок, кредитов и долговых счетов пользователей.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

// ErrNotFound возвращается, когда запись не найдена или принадлежит другому пользователю.
var ErrNotFound = models.ErrNotFound

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady проверяет, что миграции применены.
func CheckDatabaseReady(ctx context.Context, storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscriptions'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("storage.CheckDatabaseReady: %w", err)
	}
	if !exists {
		return errors.New("storage.CheckDatabaseReady: required table subscriptions missing")
	}
	return nil
}

// WaitReady повторяет CheckDatabaseReady, пока база не станет доступна.
func WaitReady(ctx context.Context, storage *Storage, attempts int, delay time.Duration) error {
	var err error
	for range attempts {
		if err = CheckDatabaseReady(ctx, storage); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}

func checkAffected(op string, res sql.Result) (int, error) {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return int(rowsAffected), nil
}

func wrapScanErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullDate(t sql.NullTime) *models.Date {
	if !t.Valid {
		return nil
	}
	d := models.NewDate(t.Time)
	return &d
}
