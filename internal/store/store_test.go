package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"example.com/healthtrack/internal/domain"
	"example.com/healthtrack/internal/persistence/jsonfile"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage.json")
	return New(jsonfile.NewCodec(path, testLogger()), testLogger()), path
}

func register(t *testing.T, s *Store, name string) string {
	t.Helper()
	err := s.Register(RegisterInput{
		Name: name, Age: 30, WeightKg: 70, HeightM: 1.75, Password: "pw", Gender: "female",
	})
	require.NoError(t, err)
	tok, err := s.Login(name, "pw")
	require.NoError(t, err)
	return tok
}

func TestRegisterThenLogin(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Register(RegisterInput{
		Name: "alice", Age: 30, WeightKg: 70, HeightM: 1.75, Password: "pw", Gender: "female",
	}))

	tok, err := s.Login("alice", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	_, err = s.Login("alice", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = s.Login("nobody", "pw")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestStore(t)

	cases := []RegisterInput{
		{Name: "", Age: 30, WeightKg: 70, HeightM: 1.75, Password: "pw"},
		{Name: "a", Age: 30, WeightKg: 70, HeightM: 1.75, Password: ""},
		{Name: "a", Age: 0, WeightKg: 70, HeightM: 1.75, Password: "pw"},
		{Name: "a", Age: 30, WeightKg: 0, HeightM: 1.75, Password: "pw"},
		{Name: "a", Age: 30, WeightKg: 70, HeightM: 0, Password: "pw"},
	}
	for _, in := range cases {
		require.ErrorIs(t, s.Register(in), domain.ErrValidation)
	}

	// Nothing was created by the failed attempts.
	_, err := s.Login("a", "pw")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	s, _ := newTestStore(t)
	register(t, s, "alice")

	err := s.Register(RegisterInput{
		Name: "alice", Age: 25, WeightKg: 60, HeightM: 1.6, Password: "other", Gender: "male",
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestMultipleSessionsStayValid(t *testing.T) {
	s, _ := newTestStore(t)
	first := register(t, s, "alice")
	second, err := s.Login("alice", "pw")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = s.Profile(first)
	require.NoError(t, err)
	_, err = s.Profile(second)
	require.NoError(t, err)
}

func TestUnknownTokenIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Profile("no-such-token")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Waters("no-such-token")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexStability(t *testing.T) {
	s, _ := newTestStore(t)
	tok := register(t, s, "alice")

	for i, amount := range []float64{100, 200, 300} {
		idx, err := s.AddWater(tok, domain.WaterRecord{Datetime: "2024-01-01T08:00:00Z", AmountMl: amount})
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}

	require.NoError(t, s.DeleteWater(tok, 0))

	records, err := s.Waters(tok)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 200.0, records[0].AmountMl)
	require.Equal(t, 300.0, records[1].AmountMl)

	require.ErrorIs(t, s.DeleteWater(tok, 2), domain.ErrNotFound)
}

func TestRecordValidation(t *testing.T) {
	s, _ := newTestStore(t)
	tok := register(t, s, "alice")

	_, err := s.AddWater(tok, domain.WaterRecord{Datetime: "2024-01-01T08:00:00Z", AmountMl: -1})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.AddSleep(tok, domain.SleepRecord{Datetime: "2024-01-01T23:00:00Z", Hours: -0.5})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.AddActivity(tok, domain.ActivityRecord{Datetime: "2024-01-02T18:00:00Z", Minutes: 0, Intensity: "low"})
	require.ErrorIs(t, err, domain.ErrValidation)

	// Zero-hour sleep is allowed.
	_, err = s.AddSleep(tok, domain.SleepRecord{Datetime: "2024-01-01T23:00:00Z", Hours: 0})
	require.NoError(t, err)

	// Failed adds must not have mutated anything.
	waters, err := s.Waters(tok)
	require.NoError(t, err)
	require.Empty(t, waters)
}

func TestUserIsolation(t *testing.T) {
	s, _ := newTestStore(t)
	aliceTok := register(t, s, "alice")
	bobTok := register(t, s, "bob")

	_, err := s.AddWater(aliceTok, domain.WaterRecord{Datetime: "2024-01-01T08:00:00Z", AmountMl: 250})
	require.NoError(t, err)

	bobWaters, err := s.Waters(bobTok)
	require.NoError(t, err)
	require.Empty(t, bobWaters)

	require.NoError(t, s.CreateCategory(aliceTok, "mood"))
	bobCats, err := s.Categories(bobTok)
	require.NoError(t, err)
	require.Empty(t, bobCats)
}

func TestCategoryGuardNoAutoCreate(t *testing.T) {
	s, _ := newTestStore(t)
	tok := register(t, s, "alice")

	_, err := s.AddCategoryItem(tok, "mood", domain.CategoryItem{Datetime: "2024-01-01T08:00:00Z", Note: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	// The failed add must not have created the category.
	cats, err := s.Categories(tok)
	require.NoError(t, err)
	require.Empty(t, cats)
}

func TestCategoryLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	tok := register(t, s, "alice")

	require.NoError(t, s.CreateCategory(tok, "mood"))
	require.ErrorIs(t, s.CreateCategory(tok, "mood"), domain.ErrConflict)
	require.ErrorIs(t, s.CreateCategory(tok, ""), domain.ErrValidation)

	idx, err := s.AddCategoryItem(tok, "mood", domain.CategoryItem{Datetime: "2024-01-01T08:00:00Z", Note: "fine"})
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	require.NoError(t, s.UpdateCategoryItem(tok, "mood", 0, domain.CategoryItem{Datetime: "2024-01-01T09:00:00Z", Note: "better"}))
	require.ErrorIs(t, s.UpdateCategoryItem(tok, "mood", 5, domain.CategoryItem{}), domain.ErrNotFound)

	items, err := s.CategoryItems(tok, "mood")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "better", items[0].Note)

	require.NoError(t, s.DeleteCategoryItem(tok, "mood", 0))
	items, err = s.CategoryItems(tok, "mood")
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, s.DeleteCategory(tok, "mood"))
	_, err = s.CategoryItems(tok, "mood")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBMI(t *testing.T) {
	s, _ := newTestStore(t)
	tok := register(t, s, "alice")

	bmi, err := s.BMI(tok)
	require.NoError(t, err)
	require.InDelta(t, 22.857, bmi, 0.001)

	_, err = s.BMI("no-such-token")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBMIUnavailableForZeroHeight(t *testing.T) {
	// Zero height cannot be registered, but it can arrive from an old
	// storage file; the sentinel must fire instead of dividing by zero.
	path := filepath.Join(t.TempDir(), "storage.json")
	doc := `{"users":[{"id":"zed","name":"zed","age":40,"weightKg":80,"heightM":0,"gender":"male","password":"pw"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s := New(jsonfile.NewCodec(path, testLogger()), testLogger())
	tok, err := s.Login("zed", "pw")
	require.NoError(t, err)

	_, err = s.BMI(tok)
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestUpdateProfileMergesAndValidates(t *testing.T) {
	s, _ := newTestStore(t)
	tok := register(t, s, "alice")

	weight := 72.5
	profile, err := s.UpdateProfile(tok, ProfileUpdate{WeightKg: &weight})
	require.NoError(t, err)
	require.Equal(t, 72.5, profile.WeightKg)
	require.Equal(t, 30, profile.Age)
	require.Equal(t, "alice", profile.Name)

	bad := -1
	_, err = s.UpdateProfile(tok, ProfileUpdate{Age: &bad})
	require.ErrorIs(t, err, domain.ErrValidation)

	// The failed update left the profile untouched.
	profile, err = s.Profile(tok)
	require.NoError(t, err)
	require.Equal(t, 30, profile.Age)

	empty := ""
	_, err = s.UpdateProfile(tok, ProfileUpdate{Password: &empty})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteUserPurgesSessions(t *testing.T) {
	s, _ := newTestStore(t)
	first := register(t, s, "alice")
	second, err := s.Login("alice", "pw")
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(first))

	_, err = s.Profile(first)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Profile(second)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Login("alice", "pw")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestWriteThroughSurvivesRestart(t *testing.T) {
	s, path := newTestStore(t)
	tok := register(t, s, "alice")

	_, err := s.AddWater(tok, domain.WaterRecord{Datetime: "2024-01-01T08:00:00Z", AmountMl: 250})
	require.NoError(t, err)
	require.NoError(t, s.CreateCategory(tok, "mood"))

	// A fresh store over the same file sees every mutation; sessions
	// do not survive the restart.
	reloaded := New(jsonfile.NewCodec(path, testLogger()), testLogger())
	_, err = reloaded.Profile(tok)
	require.ErrorIs(t, err, domain.ErrNotFound)

	tok2, err := reloaded.Login("alice", "pw")
	require.NoError(t, err)

	records, err := reloaded.Waters(tok2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 250.0, records[0].AmountMl)

	cats, err := reloaded.Categories(tok2)
	require.NoError(t, err)
	require.Equal(t, []string{"mood"}, cats)
}

func TestScenario(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Register(RegisterInput{
		Name: "alice", Age: 30, WeightKg: 70, HeightM: 1.75, Password: "pw", Gender: "female",
	}))
	tok, err := s.Login("alice", "pw")
	require.NoError(t, err)

	idx, err := s.AddWater(tok, domain.WaterRecord{Datetime: "2024-01-01T08:00:00Z", AmountMl: 250})
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	records, err := s.Waters(tok)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 250.0, records[0].AmountMl)

	require.NoError(t, s.DeleteWater(tok, 0))

	records, err = s.Waters(tok)
	require.NoError(t, err)
	require.Empty(t, records)
}
