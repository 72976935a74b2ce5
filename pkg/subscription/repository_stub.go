package subscription

import (
	"context"
	"sort"
)

type RepositoryStub struct {
	subs   []Subscription
	owners map[int]int
	lastId int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{owners: map[int]int{}}
}

func (r *RepositoryStub) Store(_ context.Context, userId int, sub Subscription) (int, error) {
	r.lastId++
	sub.Id = r.lastId
	r.subs = append(r.subs, sub)
	r.owners[sub.Id] = userId
	return sub.Id, nil
}

func (r *RepositoryStub) Get(_ context.Context, userId int, subId int) (Subscription, error) {
	for _, sub := range r.subs {
		if sub.Id == subId && r.owners[sub.Id] == userId {
			return sub, nil
		}
	}
	return Subscription{}, ErrSubscriptionNotFound
}

func (r *RepositoryStub) GetAll(_ context.Context, userId int) ([]Subscription, error) {
	var subs []Subscription
	for _, sub := range r.subs {
		if r.owners[sub.Id] == userId {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Provider < subs[j].Provider })
	return subs, nil
}

func (r *RepositoryStub) Update(_ context.Context, userId int, sub Subscription) (bool, error) {
	for i, existing := range r.subs {
		if existing.Id == sub.Id && r.owners[existing.Id] == userId {
			sub.Uid = existing.Uid
			sub.CreatedAt = existing.CreatedAt
			r.subs[i] = sub
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryStub) Delete(_ context.Context, userId int, subId int) (bool, error) {
	for i, sub := range r.subs {
		if sub.Id == subId && r.owners[sub.Id] == userId {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			delete(r.owners, subId)
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryStub) Cleanup() {
	r.subs = nil
	r.owners = map[int]int{}
	r.lastId = 0
}
