package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategorySetCreateAndGuard(t *testing.T) {
	set := &CategorySet{}

	require.NoError(t, set.Create("mood"))
	require.ErrorIs(t, set.Create("mood"), ErrConflict)
	require.ErrorIs(t, set.Create(""), ErrValidation)

	_, err := set.Items("missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, []string{"mood"}, set.Names())
}

func TestCategorySetDelete(t *testing.T) {
	set := &CategorySet{}
	require.NoError(t, set.Create("mood"))
	require.NoError(t, set.Create("meds"))

	require.NoError(t, set.Delete("mood"))
	require.Equal(t, []string{"meds"}, set.Names())
	require.ErrorIs(t, set.Delete("mood"), ErrNotFound)
}

func TestCategorySetMarshalPreservesCreationOrder(t *testing.T) {
	set := &CategorySet{}
	// Deliberately not alphabetical.
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, set.Create(name))
	}
	col, err := set.Items("alpha")
	require.NoError(t, err)
	_, err = col.Add(CategoryItem{Datetime: "2024-03-01T10:00:00Z", Note: "note"})
	require.NoError(t, err)

	first, err := json.Marshal(set)
	require.NoError(t, err)
	second, err := json.Marshal(set)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))

	decoded := &CategorySet{}
	require.NoError(t, json.Unmarshal(first, decoded))
	require.Equal(t, []string{"zeta", "alpha", "mid"}, decoded.Names())

	reencoded, err := json.Marshal(decoded)
	require.NoError(t, err)
	require.Equal(t, string(first), string(reencoded))
}

func TestCategorySetMarshalEmpty(t *testing.T) {
	set := &CategorySet{}
	data, err := json.Marshal(set)
	require.NoError(t, err)
	require.Equal(t, "{}", string(data))
}
