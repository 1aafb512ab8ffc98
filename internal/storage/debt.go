package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

// CreateDebtAccount создаёт долговой счёт и возвращает его ID.
func (s *Storage) CreateDebtAccount(ctx context.Context, account models.DebtAccount) (int, error) {
	const op = "storage.CreateDebtAccount"

	var id int
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO debt_accounts (username, counterparty) VALUES ($1, $2) RETURNING id`,
		account.Username, account.Counterparty).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadDebtAccount возвращает счёт пользователя по ID.
func (s *Storage) ReadDebtAccount(ctx context.Context, username string, id int) (*models.DebtAccount, error) {
	const op = "storage.ReadDebtAccount"

	var a models.DebtAccount
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, counterparty FROM debt_accounts WHERE id = $1 AND username = $2`, id, username).
		Scan(&a.ID, &a.Username, &a.Counterparty)
	if err != nil {
		return nil, wrapScanErr(op, err)
	}
	return &a, nil
}

// ListDebtAccounts возвращает все счета пользователя.
func (s *Storage) ListDebtAccounts(ctx context.Context, username string) ([]*models.DebtAccount, error) {
	const op = "storage.ListDebtAccounts"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, username, counterparty FROM debt_accounts WHERE username = $1 ORDER BY id`, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.DebtAccount, 0)
	for rows.Next() {
		var a models.DebtAccount
		if err := rows.Scan(&a.ID, &a.Username, &a.Counterparty); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddDebtTransaction сохраняет операцию по счёту пользователя.
func (s *Storage) AddDebtTransaction(ctx context.Context, username string, tx models.DebtTransaction) (int, error) {
	const op = "storage.AddDebtTransaction"

	query := `INSERT INTO debt_transactions (account_id, amount, type, status, description, occurred_at)
			  SELECT id, $3, $4, $5, $6, $7 FROM debt_accounts WHERE id = $1 AND username = $2
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query, tx.AccountID, username, tx.Amount, string(tx.Type),
		tx.Status, tx.Description, tx.OccurredAt).Scan(&id)
	if err != nil {
		return 0, wrapScanErr(op, err)
	}
	return id, nil
}

// ListDebtTransactions возвращает операции по счёту в порядке совершения.
func (s *Storage) ListDebtTransactions(ctx context.Context, accountID int) ([]models.DebtTransaction, error) {
	const op = "storage.ListDebtTransactions"

	query := `SELECT id, account_id, amount, type, status, description, occurred_at
			  FROM debt_transactions
			  WHERE account_id = $1
			  ORDER BY occurred_at, id`
	rows, err := s.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.DebtTransaction
	for rows.Next() {
		var tx models.DebtTransaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Amount, &tx.Type, &tx.Status,
			&tx.Description, &tx.OccurredAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
