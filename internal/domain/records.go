// Package domain defines the record types, the user aggregate and the
// error taxonomy shared by the store and its persistence codec.
package domain

import "fmt"

// Record is any timestamped entry kept in a per-user collection.
type Record interface {
	Validate() error
}

// WaterRecord is a single water intake entry.
type WaterRecord struct {
	Datetime string  `json:"datetime"`
	AmountMl float64 `json:"amountMl"`
}

func (r WaterRecord) Validate() error {
	if r.AmountMl <= 0 {
		return fmt.Errorf("%w: amountMl must be positive", ErrValidation)
	}
	return nil
}

// SleepRecord is a single sleep entry. Zero hours is allowed.
type SleepRecord struct {
	Datetime string  `json:"datetime"`
	Hours    float64 `json:"hours"`
}

func (r SleepRecord) Validate() error {
	if r.Hours < 0 {
		return fmt.Errorf("%w: hours must not be negative", ErrValidation)
	}
	return nil
}

// ActivityRecord is a single physical activity entry. The intensity is
// stored as free text, not checked against a fixed set.
type ActivityRecord struct {
	Datetime  string `json:"datetime"`
	Minutes   int    `json:"minutes"`
	Intensity string `json:"intensity"`
}

func (r ActivityRecord) Validate() error {
	if r.Minutes <= 0 {
		return fmt.Errorf("%w: minutes must be positive", ErrValidation)
	}
	return nil
}

// CategoryItem is a freeform note in a user-defined category. The value
// field is persisted for symmetry but not exposed at the boundary.
type CategoryItem struct {
	Datetime string  `json:"datetime"`
	Note     string  `json:"note"`
	Value    float64 `json:"value"`
}

func (r CategoryItem) Validate() error { return nil }
