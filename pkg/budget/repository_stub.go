package budget

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

type RepositoryStub struct {
	plans      []Plan
	planOwners map[int]int
	lastId     int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{planOwners: map[int]int{}}
}

func (r *RepositoryStub) CreatePlan(_ context.Context, userId int, plan Plan) (int, error) {
	for _, existing := range r.plans {
		if r.planOwners[existing.Id] == userId && existing.Year == plan.Year {
			return 0, ErrPlanExists
		}
	}
	r.lastId++
	plan.Id = r.lastId
	for i := range plan.Items {
		r.lastId++
		plan.Items[i].Id = r.lastId
		plan.Items[i].PlanId = plan.Id
	}
	r.plans = append(r.plans, plan)
	r.planOwners[plan.Id] = userId
	return plan.Id, nil
}

func (r *RepositoryStub) GetPlanByYear(_ context.Context, userId int, year int) (Plan, error) {
	for _, plan := range r.plans {
		if r.planOwners[plan.Id] == userId && plan.Year == year {
			return plan, nil
		}
	}
	return Plan{}, ErrPlanNotFound
}

func (r *RepositoryStub) ListPlans(_ context.Context, userId int) ([]Plan, error) {
	var plans []Plan
	for _, plan := range r.plans {
		if r.planOwners[plan.Id] == userId {
			plans = append(plans, Plan{Id: plan.Id, Year: plan.Year})
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Year > plans[j].Year })
	return plans, nil
}

func (r *RepositoryStub) DeletePlan(_ context.Context, userId int, planId int) (bool, error) {
	for i, plan := range r.plans {
		if plan.Id == planId && r.planOwners[plan.Id] == userId {
			r.plans = append(r.plans[:i], r.plans[i+1:]...)
			delete(r.planOwners, planId)
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryStub) UpsertItem(_ context.Context, userId int, item Item) (int, error) {
	for i, plan := range r.plans {
		if plan.Id != item.PlanId || r.planOwners[plan.Id] != userId {
			continue
		}
		for j, existing := range plan.Items {
			if existing.CategoryId == item.CategoryId {
				r.plans[i].Items[j].MonthlyAmount = item.MonthlyAmount
				return existing.Id, nil
			}
		}
		r.lastId++
		item.Id = r.lastId
		r.plans[i].Items = append(r.plans[i].Items, item)
		return item.Id, nil
	}
	return 0, ErrPlanNotFound
}

func (r *RepositoryStub) DeleteItem(_ context.Context, userId int, itemId int) (bool, error) {
	for i, plan := range r.plans {
		if r.planOwners[plan.Id] != userId {
			continue
		}
		for j, item := range plan.Items {
			if item.Id == itemId {
				r.plans[i].Items = append(plan.Items[:j], plan.Items[j+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

// SetPlannedAmount seeds a plan item directly, bypassing validation.
func (r *RepositoryStub) SetPlannedAmount(userId int, year int, categoryId int, amount decimal.Decimal) {
	for i, plan := range r.plans {
		if r.planOwners[plan.Id] == userId && plan.Year == year {
			r.lastId++
			r.plans[i].Items = append(plan.Items, Item{Id: r.lastId, PlanId: plan.Id, CategoryId: categoryId, MonthlyAmount: amount})
			return
		}
	}
	r.lastId++
	plan := Plan{Id: r.lastId, Year: year}
	r.lastId++
	plan.Items = []Item{{Id: r.lastId, PlanId: plan.Id, CategoryId: categoryId, MonthlyAmount: amount}}
	r.plans = append(r.plans, plan)
	r.planOwners[plan.Id] = userId
}

func (r *RepositoryStub) Cleanup() {
	r.plans = nil
	r.planOwners = map[int]int{}
	r.lastId = 0
}
