// Package debt содержит бизнес-логику долговых счетов и их итогов.
package debt

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

// maxParallelSummaries ограничивает число одновременных запросов к хранилищу.
const maxParallelSummaries = 4

// Repository определяет методы для работы с долговыми счетами.
type Repository interface {
	CreateDebtAccount(ctx context.Context, account models.DebtAccount) (int, error)
	ReadDebtAccount(ctx context.Context, username string, id int) (*models.DebtAccount, error)
	ListDebtAccounts(ctx context.Context, username string) ([]*models.DebtAccount, error)
	AddDebtTransaction(ctx context.Context, username string, tx models.DebtTransaction) (int, error)
	ListDebtTransactions(ctx context.Context, accountID int) ([]models.DebtTransaction, error)
}

// Service реализует операции над долговыми счетами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateAccount открывает счёт с контрагентом.
func (s *Service) CreateAccount(ctx context.Context, username string, req models.DummyDebtAccount) (int, error) {
	id, err := s.repo.CreateDebtAccount(ctx, models.DebtAccount{
		Username:     username,
		Counterparty: req.Counterparty,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("created debt account", slog.Int("id", id))
	return id, nil
}

// ListAccounts возвращает счета пользователя.
func (s *Service) ListAccounts(ctx context.Context, username string) ([]*models.DebtAccount, error) {
	return s.repo.ListDebtAccounts(ctx, username)
}

// AddTransaction добавляет операцию в журнал счёта.
func (s *Service) AddTransaction(ctx context.Context, username string, accountID int, req models.DummyDebtTransaction) (int, error) {
	if !req.Amount.IsPositive() {
		return 0, fmt.Errorf("amount must be positive: %w", models.ErrInvalidInput)
	}
	occurredAt, err := models.ParseDate(req.OccurredAt)
	if err != nil {
		return 0, fmt.Errorf("invalid occurred_at date: %w", models.ErrInvalidInput)
	}

	return s.repo.AddDebtTransaction(ctx, username, models.DebtTransaction{
		AccountID:   accountID,
		Amount:      req.Amount,
		Type:        finance.TransactionType(req.Type),
		Status:      req.Status,
		Description: req.Description,
		OccurredAt:  occurredAt,
	})
}

// AccountSummary возвращает счёт с итогами по журналу.
func (s *Service) AccountSummary(ctx context.Context, username string, accountID int) (*models.DebtAccountSummary, error) {
	account, err := s.repo.ReadDebtAccount(ctx, username, accountID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summarize(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &models.DebtAccountSummary{Account: account, Summary: summary}, nil
}

// Dashboard считает итоги по всем счетам пользователя параллельно
// и общий итог. Порядок счетов совпадает с порядком из хранилища.
func (s *Service) Dashboard(ctx context.Context, username string) (*models.DebtDashboard, error) {
	accounts, err := s.repo.ListDebtAccounts(ctx, username)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.DebtAccountSummary, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSummaries)
	for i, account := range accounts {
		g.Go(func() error {
			summary, err := s.summarize(gctx, account.ID)
			if err != nil {
				return err
			}
			summaries[i] = models.DebtAccountSummary{Account: account, Summary: summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := finance.SummarizeDebt(nil)
	for _, sm := range summaries {
		total = total.Add(sm.Summary)
	}
	return &models.DebtDashboard{Accounts: summaries, Total: total}, nil
}

func (s *Service) summarize(ctx context.Context, accountID int) (finance.DebtSummary, error) {
	txs, err := s.repo.ListDebtTransactions(ctx, accountID)
	if err != nil {
		return finance.DebtSummary{}, err
	}
	terms := make([]finance.DebtTransaction, 0, len(txs))
	for _, tx := range txs {
		terms = append(terms, tx.Terms())
	}
	return finance.SummarizeDebt(terms), nil
}
