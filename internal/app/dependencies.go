package app

import (
	"database/sql"

	"github.com/budgeteer/budgeteer/internal/utils"
	"github.com/budgeteer/budgeteer/pkg/account"
	"github.com/budgeteer/budgeteer/pkg/budget"
	"github.com/budgeteer/budgeteer/pkg/category"
	"github.com/budgeteer/budgeteer/pkg/goal"
	"github.com/budgeteer/budgeteer/pkg/recurring"
	"github.com/budgeteer/budgeteer/pkg/stats"
	"github.com/budgeteer/budgeteer/pkg/subscription"
	"github.com/budgeteer/budgeteer/pkg/transaction"
	"github.com/budgeteer/budgeteer/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	CategoryRepo    category.Repository
	CategoryService category.Service
	CategoryHandler *category.Handler

	AccountRepo    account.Repository
	AccountService account.Service
	AccountHandler *account.Handler

	TransactionRepo    transaction.Repository
	TransactionService transaction.Service
	TransactionHandler *transaction.Handler

	RecurringRepo    recurring.Repository
	RecurringService recurring.Service
	RecurringHandler *recurring.Handler

	SubscriptionRepo    subscription.Repository
	SubscriptionService subscription.Service
	SubscriptionHandler *subscription.Handler

	GoalRepo    goal.Repository
	GoalService goal.Service
	GoalHandler *goal.Handler

	BudgetRepo    budget.Repository
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	StatsService     stats.StatsService
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.CategoryRepo = category.NewRepository(db)
	deps.CategoryService = category.NewService(deps.CategoryRepo)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.AccountRepo = account.NewRepository(db)
	deps.AccountService = account.NewService(deps.AccountRepo)
	deps.AccountHandler = account.NewHandler(deps.AccountService)

	deps.TransactionRepo = transaction.NewRepository(db)
	deps.TransactionService = transaction.NewService(deps.TransactionRepo)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.RecurringRepo = recurring.NewRepository(db)
	deps.RecurringService = recurring.NewService(deps.RecurringRepo, deps.TransactionRepo, deps.Clock)
	deps.RecurringHandler = recurring.NewHandler(deps.RecurringService)

	deps.SubscriptionRepo = subscription.NewRepository(db)
	deps.SubscriptionService = subscription.NewService(deps.SubscriptionRepo, deps.Clock)
	deps.SubscriptionHandler = subscription.NewHandler(deps.SubscriptionService)

	deps.GoalRepo = goal.NewRepository(db)
	deps.GoalService = goal.NewService(deps.GoalRepo)
	deps.GoalHandler = goal.NewHandler(deps.GoalService)

	deps.BudgetRepo = budget.NewRepository(db)
	deps.BudgetService = budget.NewService(deps.BudgetRepo)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.StatsService = stats.NewStatsService(deps.TransactionRepo, deps.CategoryRepo, deps.BudgetRepo)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer)

	return deps
}
