package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

const subscriptionColumns = `id, username, service_name, current_cost, billing_cycle,
	next_renewal_date, status, auto_pay_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var (
		sub     models.Subscription
		renewal sql.NullTime
	)
	if err := row.Scan(&sub.ID, &sub.Username, &sub.ServiceName, &sub.CurrentCost, &sub.BillingCycle,
		&renewal, &sub.Status, &sub.AutoPayActive); err != nil {
		return nil, err
	}
	sub.NextRenewalDate = nullDate(renewal)
	return &sub, nil
}

// CreateSubscription вставляет подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"

	query := `INSERT INTO subscriptions (username, service_name, current_cost, billing_cycle,
				  next_renewal_date, status, auto_pay_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query, sub.Username, sub.ServiceName, sub.CurrentCost,
		string(sub.BillingCycle), sub.NextRenewalDate, string(sub.Status), sub.AutoPayActive).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadSubscription возвращает подписку пользователя по ID.
func (s *Storage) ReadSubscription(ctx context.Context, username string, id int) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 AND username = $2`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id, username))
	if err != nil {
		return nil, wrapScanErr(op, err)
	}
	return sub, nil
}

// UpdateSubscription обновляет подписку пользователя.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.UpdateSubscription"

	query := `UPDATE subscriptions
			  SET service_name = $1, current_cost = $2, billing_cycle = $3,
			      next_renewal_date = $4, status = $5, auto_pay_active = $6
			  WHERE id = $7 AND username = $8`
	res, err := s.DB.ExecContext(ctx, query, sub.ServiceName, sub.CurrentCost, string(sub.BillingCycle),
		sub.NextRenewalDate, string(sub.Status), sub.AutoPayActive, sub.ID, sub.Username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(op, res)
}

// RemoveSubscription удаляет подписку вместе с её историей списаний.
func (s *Storage) RemoveSubscription(ctx context.Context, username string, id int) (int, error) {
	const op = "storage.RemoveSubscription"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND username = $2`, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(op, res)
}

// ListSubscriptions возвращает подписки пользователя с пагинацией.
func (s *Storage) ListSubscriptions(ctx context.Context, username string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE username = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddLedgerEntry добавляет списание по подписке пользователя.
func (s *Storage) AddLedgerEntry(ctx context.Context, username string, entry models.SubscriptionLedgerEntry) (int, error) {
	const op = "storage.AddLedgerEntry"

	query := `INSERT INTO subscription_ledger (subscription_id, amount, paid_at, note)
			  SELECT id, $3, $4, $5 FROM subscriptions WHERE id = $1 AND username = $2
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query, entry.SubscriptionID, username, entry.Amount, entry.PaidAt, entry.Note).Scan(&id)
	if err != nil {
		return 0, wrapScanErr(op, err)
	}
	return id, nil
}

// ListLedgerEntries возвращает историю списаний по подписке в хронологическом порядке.
func (s *Storage) ListLedgerEntries(ctx context.Context, subscriptionID int) ([]models.SubscriptionLedgerEntry, error) {
	const op = "storage.ListLedgerEntries"

	query := `SELECT id, subscription_id, amount, paid_at, note
			  FROM subscription_ledger
			  WHERE subscription_id = $1
			  ORDER BY paid_at, id`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.SubscriptionLedgerEntry
	for rows.Next() {
		var e models.SubscriptionLedgerEntry
		if err := rows.Scan(&e.ID, &e.SubscriptionID, &e.Amount, &e.PaidAt, &e.Note); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindRenewingSubscriptions находит подписки с продлением в ближайшие windowDays дней
// вместе с почтой владельца.
func (s *Storage) FindRenewingSubscriptions(ctx context.Context, from time.Time, windowDays int) ([]models.SubscriptionOwner, error) {
	const op = "storage.FindRenewingSubscriptions"

	query := `SELECT u.email, s.id, s.username, s.service_name, s.current_cost, s.billing_cycle,
			      s.next_renewal_date, s.status, s.auto_pay_active
			  FROM subscriptions s
			  JOIN users u ON u.username = s.username
			  WHERE s.next_renewal_date >= $1::date
			    AND s.next_renewal_date < $1::date + $2::int
			    AND s.status IN ('Active', 'Free Trial')`
	rows, err := s.DB.QueryContext(ctx, query, from, windowDays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.SubscriptionOwner
	for rows.Next() {
		var (
			owner   models.SubscriptionOwner
			renewal sql.NullTime
			sub     = &owner.Subscription
		)
		if err := rows.Scan(&owner.Email, &sub.ID, &sub.Username, &sub.ServiceName, &sub.CurrentCost,
			&sub.BillingCycle, &renewal, &sub.Status, &sub.AutoPayActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sub.NextRenewalDate = nullDate(renewal)
		result = append(result, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
