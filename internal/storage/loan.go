package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

const loanColumns = `id, username, lender, credited_amount, processing_fee, start_date,
	tenure_months, emi_amount, due_date_day`

func scanLoan(row rowScanner) (*models.Loan, error) {
	var l models.Loan
	if err := row.Scan(&l.ID, &l.Username, &l.Lender, &l.CreditedAmount, &l.ProcessingFee, &l.StartDate,
		&l.TenureMonths, &l.EMIAmount, &l.DueDateDay); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLoan вставляет кредит и возвращает его ID.
func (s *Storage) CreateLoan(ctx context.Context, loan models.Loan) (int, error) {
	const op = "storage.CreateLoan"

	query := `INSERT INTO loans (username, lender, credited_amount, processing_fee, start_date,
				  tenure_months, emi_amount, due_date_day)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query, loan.Username, loan.Lender, loan.CreditedAmount, loan.ProcessingFee,
		loan.StartDate, loan.TenureMonths, loan.EMIAmount, loan.DueDateDay).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadLoan возвращает кредит пользователя по ID.
func (s *Storage) ReadLoan(ctx context.Context, username string, id int) (*models.Loan, error) {
	const op = "storage.ReadLoan"

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 AND username = $2`
	loan, err := scanLoan(s.DB.QueryRowContext(ctx, query, id, username))
	if err != nil {
		return nil, wrapScanErr(op, err)
	}
	return loan, nil
}

// ListLoans возвращает все кредиты пользователя.
func (s *Storage) ListLoans(ctx context.Context, username string) ([]*models.Loan, error) {
	const op = "storage.ListLoans"

	rows, err := s.DB.QueryContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE username = $1 ORDER BY id`, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Loan, 0)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveLoan удаляет кредит вместе с платежами.
func (s *Storage) RemoveLoan(ctx context.Context, username string, id int) (int, error) {
	const op = "storage.RemoveLoan"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM loans WHERE id = $1 AND username = $2`, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(op, res)
}

// AddLoanPayment сохраняет платёж по кредиту пользователя.
func (s *Storage) AddLoanPayment(ctx context.Context, username string, payment models.LoanPayment) (int, error) {
	const op = "storage.AddLoanPayment"

	query := `INSERT INTO loan_payments (loan_id, amount, paid_at)
			  SELECT id, $3, $4 FROM loans WHERE id = $1 AND username = $2
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query, payment.LoanID, username, payment.Amount, payment.PaidAt).Scan(&id)
	if err != nil {
		return 0, wrapScanErr(op, err)
	}
	return id, nil
}

// ListLoanPayments возвращает платежи по кредиту в хронологическом порядке.
func (s *Storage) ListLoanPayments(ctx context.Context, loanID int) ([]models.LoanPayment, error) {
	const op = "storage.ListLoanPayments"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, loan_id, amount, paid_at FROM loan_payments WHERE loan_id = $1 ORDER BY paid_at, id`, loanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.LoanPayment
	for rows.Next() {
		var p models.LoanPayment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.Amount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
