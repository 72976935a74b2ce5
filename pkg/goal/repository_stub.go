package goal

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

type RepositoryStub struct {
	goals  []Goal
	owners map[int]int
	lastId int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{owners: map[int]int{}}
}

func (r *RepositoryStub) Store(_ context.Context, userId int, goal Goal) (int, error) {
	r.lastId++
	goal.Id = r.lastId
	r.goals = append(r.goals, goal)
	r.owners[goal.Id] = userId
	return goal.Id, nil
}

func (r *RepositoryStub) Get(_ context.Context, userId int, goalId int) (Goal, error) {
	for _, goal := range r.goals {
		if goal.Id == goalId && r.owners[goal.Id] == userId {
			return goal, nil
		}
	}
	return Goal{}, ErrGoalNotFound
}

func (r *RepositoryStub) GetAll(_ context.Context, userId int) ([]Goal, error) {
	var goals []Goal
	for _, goal := range r.goals {
		if r.owners[goal.Id] == userId {
			goals = append(goals, goal)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].Name < goals[j].Name })
	return goals, nil
}

func (r *RepositoryStub) Update(_ context.Context, userId int, goal Goal) (bool, error) {
	for i, existing := range r.goals {
		if existing.Id == goal.Id && r.owners[existing.Id] == userId {
			goal.Uid = existing.Uid
			goal.SavedAmount = existing.SavedAmount
			goal.CreatedAt = existing.CreatedAt
			r.goals[i] = goal
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryStub) AddContribution(_ context.Context, userId int, goalId int, amount decimal.Decimal) (bool, error) {
	for i, goal := range r.goals {
		if goal.Id == goalId && r.owners[goal.Id] == userId {
			r.goals[i].SavedAmount = goal.SavedAmount.Add(amount)
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryStub) Delete(_ context.Context, userId int, goalId int) (bool, error) {
	for i, goal := range r.goals {
		if goal.Id == goalId && r.owners[goal.Id] == userId {
			r.goals = append(r.goals[:i], r.goals[i+1:]...)
			delete(r.owners, goalId)
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryStub) Cleanup() {
	r.goals = nil
	r.owners = map[int]int{}
	r.lastId = 0
}
