package category

import "context"

type StubRepository struct {
	nextId int
	data   map[int]Category
	owners map[int]int // categoryId -> userId
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]Category{}, owners: map[int]int{}}
}

func (s *StubRepository) Store(ctx context.Context, userId int, category Category) (int, error) {
	s.nextId++
	category.Id = s.nextId
	s.data[category.Id] = category
	s.owners[category.Id] = userId
	return category.Id, nil
}

func (s *StubRepository) Get(ctx context.Context, userId int, categoryId int) (Category, error) {
	category, ok := s.data[categoryId]
	if !ok || s.owners[categoryId] != userId {
		return Category{}, ErrCategoryNotFound
	}
	return category, nil
}

func (s *StubRepository) GetAll(ctx context.Context, userId int) ([]Category, error) {
	var categories []Category
	for id, category := range s.data {
		if s.owners[id] == userId {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (s *StubRepository) Update(ctx context.Context, userId int, category Category) (bool, error) {
	if _, ok := s.data[category.Id]; !ok || s.owners[category.Id] != userId {
		return false, nil
	}
	s.data[category.Id] = category
	return true, nil
}

func (s *StubRepository) Delete(ctx context.Context, userId int, categoryId int) (bool, error) {
	if _, ok := s.data[categoryId]; !ok || s.owners[categoryId] != userId {
		return false, nil
	}
	delete(s.data, categoryId)
	delete(s.owners, categoryId)
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Category{}
	s.owners = map[int]int{}
	s.nextId = 0
}
