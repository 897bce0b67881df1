// Package store owns the user registry and the session map. Every
// public operation runs under one mutex whose critical section spans
// both the in-memory mutation and the persistence flush, so no caller
// ever observes a partially-updated user.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"example.com/healthtrack/internal/domain"
	"example.com/healthtrack/internal/observability"
	"example.com/healthtrack/internal/token"
)

// Codec is the persistence collaborator. Save must leave the backing
// file consistent with the given snapshot before returning.
type Codec interface {
	Save(users []*domain.User) error
	Load() []*domain.User
}

// Store is the single process-wide registry instance, passed by handle
// to the transport layer; there are no ambient globals.
type Store struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	order    []string
	sessions map[string]string
	codec    Codec
	logger   *logrus.Logger
}

// New loads the registry through the codec and returns a ready store.
func New(codec Codec, logger *logrus.Logger) *Store {
	s := &Store{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]string),
		codec:    codec,
		logger:   logger,
	}
	for _, u := range codec.Load() {
		if _, ok := s.users[u.Profile.Name]; ok {
			continue
		}
		s.users[u.Profile.Name] = u
		s.order = append(s.order, u.Profile.Name)
	}
	observability.SetRegisteredUsers(len(s.users))
	logger.Infof("registry loaded with %d user(s)", len(s.users))
	return s
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name     string
	Age      int
	WeightKg float64
	HeightM  float64
	Password string
	Gender   string
}

// ProfileUpdate carries a partial profile change; nil fields keep their
// current value. The merged result is validated like a registration.
type ProfileUpdate struct {
	Age      *int
	WeightKg *float64
	HeightM  *float64
	Password *string
	Gender   *string
}

// Register validates the input and creates a user with empty record
// collections and an empty category table.
func (s *Store) Register(in RegisterInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.registerLocked(in)
	observability.RecordOperation("register", outcome(err))
	return err
}

func (s *Store) registerLocked(in RegisterInput) error {
	if in.Name == "" || in.Password == "" {
		return fmt.Errorf("%w: name and password must not be empty", domain.ErrValidation)
	}
	if in.Age <= 0 || in.WeightKg <= 0 || in.HeightM <= 0 {
		return fmt.Errorf("%w: age, weightKg and heightM must be positive", domain.ErrValidation)
	}
	if _, ok := s.users[in.Name]; ok {
		return fmt.Errorf("%w: user %q", domain.ErrConflict, in.Name)
	}

	profile := domain.UserProfile{
		ID:       in.Name,
		Name:     in.Name,
		Age:      in.Age,
		WeightKg: in.WeightKg,
		HeightM:  in.HeightM,
		Gender:   in.Gender,
	}
	s.users[in.Name] = domain.NewUser(profile, in.Password)
	s.order = append(s.order, in.Name)
	observability.SetRegisteredUsers(len(s.users))
	return s.persistLocked()
}

// Login checks the credentials and mints a new session token. Earlier
// tokens for the same user stay valid; sessions only die with the
// process.
func (s *Store) Login(name, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.loginLocked(name, password)
	observability.RecordOperation("login", outcome(err))
	return tok, err
}

func (s *Store) loginLocked(name, password string) (string, error) {
	user, ok := s.users[name]
	if !ok || user.Password != password {
		return "", domain.ErrInvalidCredentials
	}
	tok, err := token.Generate()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	s.sessions[tok] = name
	return tok, nil
}

// Profile resolves the token and returns a copy of the profile.
func (s *Store) Profile(tok string) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.resolve(tok)
	observability.RecordOperation("profile", outcome(err))
	if err != nil {
		return domain.UserProfile{}, err
	}
	return user.Profile, nil
}

// UpdateProfile merges the update over the current profile and replaces
// it, under the same validation rules as registration. The name is
// immutable.
func (s *Store) UpdateProfile(tok string, up ProfileUpdate) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.updateProfileLocked(tok, up)
	observability.RecordOperation("update_profile", outcome(err))
	return profile, err
}

func (s *Store) updateProfileLocked(tok string, up ProfileUpdate) (domain.UserProfile, error) {
	user, err := s.resolve(tok)
	if err != nil {
		return domain.UserProfile{}, err
	}

	merged := user.Profile
	password := user.Password
	if up.Age != nil {
		merged.Age = *up.Age
	}
	if up.WeightKg != nil {
		merged.WeightKg = *up.WeightKg
	}
	if up.HeightM != nil {
		merged.HeightM = *up.HeightM
	}
	if up.Gender != nil {
		merged.Gender = *up.Gender
	}
	if up.Password != nil {
		password = *up.Password
	}

	if password == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: password must not be empty", domain.ErrValidation)
	}
	if merged.Age <= 0 || merged.WeightKg <= 0 || merged.HeightM <= 0 {
		return domain.UserProfile{}, fmt.Errorf("%w: age, weightKg and heightM must be positive", domain.ErrValidation)
	}

	user.Profile = merged
	user.Password = password
	if err := s.persistLocked(); err != nil {
		return domain.UserProfile{}, err
	}
	return merged, nil
}

// DeleteUser removes the user the token resolves to and purges every
// session naming it, so later calls with those tokens fail with not
// found instead of dangling.
func (s *Store) DeleteUser(tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.deleteUserLocked(tok)
	observability.RecordOperation("delete_user", outcome(err))
	return err
}

func (s *Store) deleteUserLocked(tok string) error {
	user, err := s.resolve(tok)
	if err != nil {
		return err
	}
	name := user.Profile.Name

	delete(s.users, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for t, n := range s.sessions {
		if n == name {
			delete(s.sessions, t)
		}
	}
	observability.SetRegisteredUsers(len(s.users))
	return s.persistLocked()
}

// BMI computes weightKg / heightM². A non-positive height or weight
// yields ErrUnavailable rather than a division error; the boundary
// reports that the same way as an unknown profile.
func (s *Store) BMI(tok string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bmi, err := s.bmiLocked(tok)
	observability.RecordOperation("bmi", outcome(err))
	return bmi, err
}

func (s *Store) bmiLocked(tok string) (float64, error) {
	user, err := s.resolve(tok)
	if err != nil {
		return 0, err
	}
	p := user.Profile
	if p.HeightM <= 0 || p.WeightKg <= 0 {
		return 0, fmt.Errorf("%w: bmi needs positive weight and height", domain.ErrUnavailable)
	}
	return p.WeightKg / (p.HeightM * p.HeightM), nil
}

// Flush persists the current registry. Used for the best-effort save at
// shutdown; regular mutations flush on their own.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// resolve maps a token to its user. Unknown tokens and tokens whose
// user has been deleted both come back as ErrNotFound.
func (s *Store) resolve(tok string) (*domain.User, error) {
	name, ok := s.sessions[tok]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", domain.ErrNotFound)
	}
	user, ok := s.users[name]
	if !ok {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, name)
	}
	return user, nil
}

// persistLocked flushes the full registry through the codec. On
// failure the in-memory mutation is kept, the warning is logged by the
// codec, and the triggering call is reported as failed.
func (s *Store) persistLocked() error {
	snapshot := make([]*domain.User, 0, len(s.order))
	for _, name := range s.order {
		snapshot = append(snapshot, s.users[name])
	}
	if err := s.codec.Save(snapshot); err != nil {
		observability.RecordSnapshotFailure()
		return fmt.Errorf("persisting registry: %w", err)
	}
	observability.RecordSnapshotPersisted(time.Now())
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation_failed"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "unauthorized"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
