// Package loan содержит бизнес-логику кредитов: хранение условий и платежей,
// построение графика, прогресс выплат и оценку плоской ставки.
package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

// Repository определяет методы для работы с кредитами в хранилище.
type Repository interface {
	CreateLoan(ctx context.Context, loan models.Loan) (int, error)
	ReadLoan(ctx context.Context, username string, id int) (*models.Loan, error)
	ListLoans(ctx context.Context, username string) ([]*models.Loan, error)
	RemoveLoan(ctx context.Context, username string, id int) (int, error)
	AddLoanPayment(ctx context.Context, username string, payment models.LoanPayment) (int, error)
	ListLoanPayments(ctx context.Context, loanID int) ([]models.LoanPayment, error)
}

// Service реализует операции над кредитами.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Create сохраняет кредит и возвращает его ID.
func (s *Service) Create(ctx context.Context, username string, req models.DummyLoan) (int, error) {
	if req.CreditedAmount.IsNegative() || req.ProcessingFee.IsNegative() || req.EMIAmount.IsNegative() {
		return 0, fmt.Errorf("loan amounts must not be negative: %w", models.ErrInvalidInput)
	}
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", models.ErrInvalidInput)
	}

	id, err := s.repo.CreateLoan(ctx, models.Loan{
		Username:       username,
		Lender:         req.Lender,
		CreditedAmount: req.CreditedAmount,
		ProcessingFee:  req.ProcessingFee,
		StartDate:      start,
		TenureMonths:   req.TenureMonths,
		EMIAmount:      req.EMIAmount,
		DueDateDay:     req.DueDateDay,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new loan", slog.Int("id", id))
	return id, nil
}

// Read возвращает кредит пользователя.
func (s *Service) Read(ctx context.Context, username string, id int) (*models.Loan, error) {
	return s.repo.ReadLoan(ctx, username, id)
}

// List возвращает все кредиты пользователя.
func (s *Service) List(ctx context.Context, username string) ([]*models.Loan, error) {
	return s.repo.ListLoans(ctx, username)
}

// Remove удаляет кредит вместе с платежами.
func (s *Service) Remove(ctx context.Context, username string, id int) (int, error) {
	return s.repo.RemoveLoan(ctx, username, id)
}

// AddPayment фиксирует фактический платёж по кредиту.
func (s *Service) AddPayment(ctx context.Context, username string, loanID int, req models.DummyLoanPayment) (int, error) {
	if !req.Amount.IsPositive() {
		return 0, fmt.Errorf("amount must be positive: %w", models.ErrInvalidInput)
	}
	paidAt, err := models.ParseDate(req.PaidAt)
	if err != nil {
		return 0, fmt.Errorf("invalid paid_at date: %w", models.ErrInvalidInput)
	}

	return s.repo.AddLoanPayment(ctx, username, models.LoanPayment{
		LoanID: loanID,
		Amount: req.Amount,
		PaidAt: paidAt,
	})
}

// Schedule строит график платежей по условиям кредита на сегодняшний день.
func (s *Service) Schedule(ctx context.Context, username string, id int) ([]finance.ScheduleEntry, error) {
	loan, err := s.repo.ReadLoan(ctx, username, id)
	if err != nil {
		return nil, err
	}
	return finance.GenerateSchedule(loan.Terms(), s.now()), nil
}

// Details возвращает график, прогресс выплат и оценку ставки.
// Ставка считается по договорному графику: фактические платежи обычно неполные
// и занижали бы оценку.
func (s *Service) Details(ctx context.Context, username string, id int) (*models.LoanDetails, error) {
	loan, err := s.repo.ReadLoan(ctx, username, id)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListLoanPayments(ctx, id)
	if err != nil {
		return nil, err
	}

	schedule := finance.GenerateSchedule(loan.Terms(), s.now())

	paid := make([]finance.Payment, 0, len(records))
	for _, p := range records {
		paid = append(paid, finance.Payment{Amount: p.Amount, Date: p.PaidAt.Time})
	}
	contractual := make([]finance.Payment, 0, len(schedule))
	for _, e := range schedule {
		contractual = append(contractual, finance.Payment{Amount: e.Amount})
	}

	rate := finance.EstimateFlatRate(loan.CreditedAmount, contractual, loan.ProcessingFee)
	return &models.LoanDetails{
		Loan:     loan,
		Schedule: schedule,
		Progress: finance.SummarizeLoan(schedule, paid),
		FlatRate: rate,
		Advice:   finance.AdviseRate(rate),
	}, nil
}
