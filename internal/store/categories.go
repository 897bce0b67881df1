package store

import (
	"example.com/healthtrack/internal/domain"
	"example.com/healthtrack/internal/observability"
)

// Categories lists the token owner's category names in creation order.
func (s *Store) Categories(tok string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.resolve(tok)
	observability.RecordOperation("list_categories", outcome(err))
	if err != nil {
		return nil, err
	}
	return user.Categories.Names(), nil
}

// CreateCategory inserts an empty category under name.
func (s *Store) CreateCategory(tok, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := func() error {
		user, err := s.resolve(tok)
		if err != nil {
			return err
		}
		if err := user.Categories.Create(name); err != nil {
			return err
		}
		return s.persistLocked()
	}()
	observability.RecordOperation("create_category", outcome(err))
	return err
}

// DeleteCategory removes the category and all its items.
func (s *Store) DeleteCategory(tok, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := func() error {
		user, err := s.resolve(tok)
		if err != nil {
			return err
		}
		if err := user.Categories.Delete(name); err != nil {
			return err
		}
		return s.persistLocked()
	}()
	observability.RecordOperation("delete_category", outcome(err))
	return err
}

// AddCategoryItem appends an item to an existing category and returns
// its index. The category is never created implicitly.
func (s *Store) AddCategoryItem(tok, name string, item domain.CategoryItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := func() (int, error) {
		user, err := s.resolve(tok)
		if err != nil {
			return 0, err
		}
		col, err := user.Categories.Items(name)
		if err != nil {
			return 0, err
		}
		index, err := col.Add(item)
		if err != nil {
			return 0, err
		}
		return index, s.persistLocked()
	}()
	observability.RecordOperation("add_category_item", outcome(err))
	return index, err
}

// CategoryItems lists the items of an existing category in insertion
// order. An empty category yields an empty list, not an error.
func (s *Store) CategoryItems(tok, name string) ([]domain.CategoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := func() ([]domain.CategoryItem, error) {
		user, err := s.resolve(tok)
		if err != nil {
			return nil, err
		}
		col, err := user.Categories.Items(name)
		if err != nil {
			return nil, err
		}
		return col.List(), nil
	}()
	observability.RecordOperation("list_category_items", outcome(err))
	return items, err
}

// UpdateCategoryItem replaces the item at index within the category.
func (s *Store) UpdateCategoryItem(tok, name string, index int, item domain.CategoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := func() error {
		user, err := s.resolve(tok)
		if err != nil {
			return err
		}
		col, err := user.Categories.Items(name)
		if err != nil {
			return err
		}
		if err := col.Replace(index, item); err != nil {
			return err
		}
		return s.persistLocked()
	}()
	observability.RecordOperation("update_category_item", outcome(err))
	return err
}

// DeleteCategoryItem removes the item at index within the category.
func (s *Store) DeleteCategoryItem(tok, name string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := func() error {
		user, err := s.resolve(tok)
		if err != nil {
			return err
		}
		col, err := user.Categories.Items(name)
		if err != nil {
			return err
		}
		if err := col.Remove(index); err != nil {
			return err
		}
		return s.persistLocked()
	}()
	observability.RecordOperation("delete_category_item", outcome(err))
	return err
}
