package goal

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidGoal = errors.New("invalid goal")

// Goal is a savings target. SavedAmount only ever grows through
// contributions; there is no withdrawal operation.
type Goal struct {
	Id           int
	Uid          string
	Name         string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	TargetDate   time.Time // zero when no deadline
	CreatedAt    time.Time
}

func (g Goal) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGoal)
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be greater than zero", ErrInvalidGoal)
	}
	if g.SavedAmount.IsNegative() {
		return fmt.Errorf("%w: saved amount cannot be negative", ErrInvalidGoal)
	}
	return nil
}

// Progress is the saved fraction of the target, capped at 1.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	progress := g.SavedAmount.DivRound(g.TargetAmount, 4)
	one := decimal.NewFromInt(1)
	if progress.GreaterThan(one) {
		return one
	}
	return progress
}

func (g Goal) IsAchieved() bool {
	return g.SavedAmount.GreaterThanOrEqual(g.TargetAmount)
}
