package recurring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/budgeteer/budgeteer/internal/utils"
	"github.com/budgeteer/budgeteer/pkg/transaction"
	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidPeriod = errors.New("invalid period")

// GenerationResult reports one materialization run. Generated counts entries
// actually inserted; AlreadyMaterialized counts rules that had an entry for
// the period before (or gained one from a concurrent run); NotDue counts
// active rules not eligible this period.
type GenerationResult struct {
	Generated           int
	AlreadyMaterialized int
	NotDue              int
}

func (r GenerationResult) Skipped() int {
	return r.AlreadyMaterialized + r.NotDue
}

// UpcomingPayment is one future occurrence of an active rule, for display only.
type UpcomingPayment struct {
	Rule    Rule
	DueDate time.Time
}

type Service interface {
	Create(ctx context.Context, rule Rule) (Rule, error)
	Get(ctx context.Context, id int) (Rule, error)
	GetAll(ctx context.Context) ([]Rule, error)
	Update(ctx context.Context, rule Rule) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// GenerateForPeriod materializes ledger entries for every active rule due
	// in the given month. Safe to re-run: rules already materialized for the
	// period are skipped, and the ledger's uniqueness guard keeps concurrent
	// runs from inserting duplicates.
	GenerateForPeriod(ctx context.Context, year int, month time.Month) (GenerationResult, error)
	// UpcomingPayments lists the next occurrence of every active rule due
	// within the given number of days from today, soonest first.
	UpcomingPayments(ctx context.Context, withinDays int) ([]UpcomingPayment, error)
}

type ServiceImpl struct {
	repo   Repository
	ledger transaction.Repository
	clock  utils.Clock
}

func NewService(repo Repository, ledger transaction.Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, ledger: ledger, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, rule Rule) (Rule, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Rule{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	rule.Uid = uuid.NewString()

	id, err := s.repo.Store(ctx, userId, rule)
	if err != nil {
		return Rule{}, err
	}
	rule.Id = id
	return rule, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Rule, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Rule{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Rule, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

// Update edits the rule template only. Entries materialized in earlier
// periods keep the amount and dates they were generated with.
func (s *ServiceImpl) Update(ctx context.Context, rule Rule) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := rule.Validate(); err != nil {
		return false, err
	}

	updated, err := s.repo.Update(ctx, userId, rule)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("rule not updated, probably because it does not exist (%d) or the user (%d) is not the owner", rule.Id, userId)
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}

func (s *ServiceImpl) GenerateForPeriod(ctx context.Context, year int, month time.Month) (GenerationResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if month < time.January || month > time.December {
		return GenerationResult{}, fmt.Errorf("%w: month %d is out of range", ErrInvalidPeriod, month)
	}
	if year < 1 {
		return GenerationResult{}, fmt.Errorf("%w: year %d is out of range", ErrInvalidPeriod, year)
	}

	rules, err := s.repo.FindActive(ctx, userId)
	if err != nil {
		return GenerationResult{}, err
	}
	existing, err := s.ledger.FindMaterialized(ctx, userId, year, month)
	if err != nil {
		return GenerationResult{}, err
	}
	materialized := make(map[string]bool, len(existing))
	for _, entry := range existing {
		materialized[entry.RuleUid] = true
	}

	var result GenerationResult
	entries := make([]transaction.Transaction, 0, len(rules))
	for _, rule := range rules {
		if !OccursInMonth(rule, year, month) {
			result.NotDue++
			continue
		}
		if materialized[rule.Uid] {
			result.AlreadyMaterialized++
			continue
		}
		entries = append(entries, transaction.Transaction{
			Uid:         uuid.NewString(),
			Type:        rule.Type,
			Amount:      rule.Amount,
			CategoryId:  rule.CategoryId,
			AccountId:   rule.AccountId,
			Description: rule.Name,
			Date:        OccurrenceDate(rule, year, month),
			RuleUid:     rule.Uid,
			PeriodYear:  year,
			PeriodMonth: month,
		})
	}

	inserted, err := s.ledger.InsertGenerated(ctx, userId, entries)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("failed to persist generated transactions: %w", err)
	}
	result.Generated = inserted
	// entries dropped by the uniqueness guard were materialized by a
	// concurrent run between our read and the insert
	result.AlreadyMaterialized += len(entries) - inserted

	log.Infof("generated %d recurring transactions for user %d, period %d-%02d (%d already materialized, %d not due)",
		result.Generated, userId, year, month, result.AlreadyMaterialized, result.NotDue)
	return result, nil
}

func (s *ServiceImpl) UpcomingPayments(ctx context.Context, withinDays int) ([]UpcomingPayment, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	rules, err := s.repo.FindActive(ctx, userId)
	if err != nil {
		return nil, err
	}

	today := utils.Today(s.clock)
	horizon := today.AddDate(0, 0, withinDays)

	var payments []UpcomingPayment
	for _, rule := range rules {
		next, ok := NextOccurrenceOnOrAfter(rule, today)
		if !ok || next.After(horizon) {
			continue
		}
		payments = append(payments, UpcomingPayment{Rule: rule, DueDate: next})
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].DueDate.Before(payments[j].DueDate)
	})
	return payments, nil
}
