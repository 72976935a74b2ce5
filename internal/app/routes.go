package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/categories", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/categories", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Accounts
	r.HandleFunc("/api/accounts", deps.AccountHandler.Create).Methods("POST")
	r.HandleFunc("/api/accounts", deps.AccountHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/accounts/{id}", deps.AccountHandler.Get).Methods("GET")
	r.HandleFunc("/api/accounts/{id}", deps.AccountHandler.Update).Methods("PUT")
	r.HandleFunc("/api/accounts/{id}", deps.AccountHandler.Delete).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transactions", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transactions", deps.TransactionHandler.Find).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Recurring rules
	r.HandleFunc("/api/recurring", deps.RecurringHandler.Create).Methods("POST")
	r.HandleFunc("/api/recurring", deps.RecurringHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/recurring/{id}", deps.RecurringHandler.Update).Methods("PUT")
	r.HandleFunc("/api/recurring/{id}", deps.RecurringHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/recurring/generate", deps.RecurringHandler.Generate).
		Queries("year", "{year}", "month", "{month}").Methods("POST")
	r.HandleFunc("/api/recurring/upcoming", deps.RecurringHandler.Upcoming).Methods("GET")

	// Subscriptions
	r.HandleFunc("/api/subscriptions", deps.SubscriptionHandler.Create).Methods("POST")
	r.HandleFunc("/api/subscriptions", deps.SubscriptionHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/subscriptions/{id}", deps.SubscriptionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/subscriptions/{id}", deps.SubscriptionHandler.Delete).Methods("DELETE")

	// Savings goals
	r.HandleFunc("/api/goals", deps.GoalHandler.Create).Methods("POST")
	r.HandleFunc("/api/goals", deps.GoalHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.Update).Methods("PUT")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/goals/{id}/contributions", deps.GoalHandler.Contribute).Methods("POST")

	// Budget plans
	r.HandleFunc("/api/budgetplan", deps.BudgetHandler.ListPlans).Methods("GET")
	r.HandleFunc("/api/budgetplan", deps.BudgetHandler.CreatePlan).Methods("POST")
	r.HandleFunc("/api/budgetplan/{year}", deps.BudgetHandler.GetPlan).Methods("GET")
	r.HandleFunc("/api/budgetplan/{id}", deps.BudgetHandler.DeletePlan).Methods("DELETE")
	r.HandleFunc("/api/budgetplan/{id}/item", deps.BudgetHandler.SetItem).Methods("PUT")
	r.HandleFunc("/api/budgetplan/{id}/item/{itemId}", deps.BudgetHandler.DeleteItem).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats/monthly", deps.StatsHandler.GetMonthlySummary).
		Queries("year", "{year}", "month", "{month}").Methods("GET")
}
