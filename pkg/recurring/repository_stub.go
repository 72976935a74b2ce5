package recurring

import (
	"context"
	"sort"
)

type RepositoryStub struct {
	rules  []Rule
	owners map[int]int
	lastId int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{owners: map[int]int{}}
}

func (r *RepositoryStub) Store(_ context.Context, userId int, rule Rule) (int, error) {
	r.lastId++
	rule.Id = r.lastId
	r.rules = append(r.rules, rule)
	r.owners[rule.Id] = userId
	return rule.Id, nil
}

func (r *RepositoryStub) Get(_ context.Context, userId int, ruleId int) (Rule, error) {
	for _, rule := range r.rules {
		if rule.Id == ruleId && r.owners[rule.Id] == userId {
			return rule, nil
		}
	}
	return Rule{}, ErrRuleNotFound
}

func (r *RepositoryStub) GetAll(_ context.Context, userId int) ([]Rule, error) {
	var rules []Rule
	for _, rule := range r.rules {
		if r.owners[rule.Id] == userId {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	return rules, nil
}

func (r *RepositoryStub) FindActive(_ context.Context, userId int) ([]Rule, error) {
	var rules []Rule
	for _, rule := range r.rules {
		if r.owners[rule.Id] == userId && rule.IsActive {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	return rules, nil
}

func (r *RepositoryStub) Update(_ context.Context, userId int, rule Rule) (bool, error) {
	for i, existing := range r.rules {
		if existing.Id == rule.Id && r.owners[existing.Id] == userId {
			rule.Uid = existing.Uid
			rule.CreatedAt = existing.CreatedAt
			r.rules[i] = rule
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryStub) Delete(_ context.Context, userId int, ruleId int) (bool, error) {
	for i, rule := range r.rules {
		if rule.Id == ruleId && r.owners[rule.Id] == userId {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			delete(r.owners, ruleId)
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryStub) Cleanup() {
	r.rules = nil
	r.owners = map[int]int{}
	r.lastId = 0
}
