package domain

import (
	"encoding/json"
	"fmt"
)

// Collection is an insertion-ordered list of records addressed by
// 0-based index. Indices are the stable per-call identifiers exposed at
// the boundary: deleting index i shifts everything after it down by one.
type Collection[T Record] struct {
	records []T
}

// Add validates the record and appends it, returning its index.
func (c *Collection[T]) Add(r T) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	c.records = append(c.records, r)
	return len(c.records) - 1, nil
}

// List returns a copy of all records in insertion order. The result is
// never nil so callers and the codec always see a list.
func (c *Collection[T]) List() []T {
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Get returns the record at index.
func (c *Collection[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(c.records) {
		return zero, fmt.Errorf("%w: index %d out of range", ErrNotFound, index)
	}
	return c.records[index], nil
}

// Replace swaps out every field of the record at index.
func (c *Collection[T]) Replace(index int, r T) error {
	if index < 0 || index >= len(c.records) {
		return fmt.Errorf("%w: index %d out of range", ErrNotFound, index)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	c.records[index] = r
	return nil
}

// Remove deletes the record at index, shifting later records down.
func (c *Collection[T]) Remove(index int) error {
	if index < 0 || index >= len(c.records) {
		return fmt.Errorf("%w: index %d out of range", ErrNotFound, index)
	}
	c.records = append(c.records[:index], c.records[index+1:]...)
	return nil
}

// Len reports the number of records.
func (c *Collection[T]) Len() int { return len(c.records) }

// MarshalJSON always encodes as a JSON array, [] when empty.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.List())
}

// UnmarshalJSON replaces the contents with the decoded array. Stored
// records are trusted as-is; validation applies only at the boundary.
func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	c.records = records
	return nil
}
