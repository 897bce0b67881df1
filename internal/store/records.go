package store

import (
	"example.com/healthtrack/internal/domain"
	"example.com/healthtrack/internal/observability"
)

// The per-kind operations below share one generic implementation; the
// kind only decides which collection of the resolved user is touched.

func addRecord[T domain.Record](s *Store, tok string, pick func(*domain.User) *domain.Collection[T], r T, op string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := func() (int, error) {
		user, err := s.resolve(tok)
		if err != nil {
			return 0, err
		}
		index, err := pick(user).Add(r)
		if err != nil {
			return 0, err
		}
		return index, s.persistLocked()
	}()
	observability.RecordOperation(op, outcome(err))
	return index, err
}

func listRecords[T domain.Record](s *Store, tok string, pick func(*domain.User) *domain.Collection[T], op string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.resolve(tok)
	observability.RecordOperation(op, outcome(err))
	if err != nil {
		return nil, err
	}
	return pick(user).List(), nil
}

func replaceRecord[T domain.Record](s *Store, tok string, pick func(*domain.User) *domain.Collection[T], index int, r T, op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := func() error {
		user, err := s.resolve(tok)
		if err != nil {
			return err
		}
		if err := pick(user).Replace(index, r); err != nil {
			return err
		}
		return s.persistLocked()
	}()
	observability.RecordOperation(op, outcome(err))
	return err
}

func removeRecord[T domain.Record](s *Store, tok string, pick func(*domain.User) *domain.Collection[T], index int, op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := func() error {
		user, err := s.resolve(tok)
		if err != nil {
			return err
		}
		if err := pick(user).Remove(index); err != nil {
			return err
		}
		return s.persistLocked()
	}()
	observability.RecordOperation(op, outcome(err))
	return err
}

func waters(u *domain.User) *domain.Collection[domain.WaterRecord]        { return u.Waters }
func sleeps(u *domain.User) *domain.Collection[domain.SleepRecord]        { return u.Sleeps }
func activities(u *domain.User) *domain.Collection[domain.ActivityRecord] { return u.Activities }

// AddWater appends a water record and returns its index.
func (s *Store) AddWater(tok string, r domain.WaterRecord) (int, error) {
	return addRecord(s, tok, waters, r, "add_water")
}

// Waters lists all water records in insertion order.
func (s *Store) Waters(tok string) ([]domain.WaterRecord, error) {
	return listRecords(s, tok, waters, "list_waters")
}

// UpdateWater replaces the water record at index.
func (s *Store) UpdateWater(tok string, index int, r domain.WaterRecord) error {
	return replaceRecord(s, tok, waters, index, r, "update_water")
}

// DeleteWater removes the water record at index.
func (s *Store) DeleteWater(tok string, index int) error {
	return removeRecord(s, tok, waters, index, "delete_water")
}

// AddSleep appends a sleep record and returns its index.
func (s *Store) AddSleep(tok string, r domain.SleepRecord) (int, error) {
	return addRecord(s, tok, sleeps, r, "add_sleep")
}

// Sleeps lists all sleep records in insertion order.
func (s *Store) Sleeps(tok string) ([]domain.SleepRecord, error) {
	return listRecords(s, tok, sleeps, "list_sleeps")
}

// UpdateSleep replaces the sleep record at index.
func (s *Store) UpdateSleep(tok string, index int, r domain.SleepRecord) error {
	return replaceRecord(s, tok, sleeps, index, r, "update_sleep")
}

// DeleteSleep removes the sleep record at index.
func (s *Store) DeleteSleep(tok string, index int) error {
	return removeRecord(s, tok, sleeps, index, "delete_sleep")
}

// AddActivity appends an activity record and returns its index.
func (s *Store) AddActivity(tok string, r domain.ActivityRecord) (int, error) {
	return addRecord(s, tok, activities, r, "add_activity")
}

// Activities lists all activity records in insertion order.
func (s *Store) Activities(tok string) ([]domain.ActivityRecord, error) {
	return listRecords(s, tok, activities, "list_activities")
}

// UpdateActivity replaces the activity record at index.
func (s *Store) UpdateActivity(tok string, index int, r domain.ActivityRecord) error {
	return replaceRecord(s, tok, activities, index, r, "update_activity")
}

// DeleteActivity removes the activity record at index.
func (s *Store) DeleteActivity(tok string, index int) error {
	return removeRecord(s, tok, activities, index, "delete_activity")
}
