package snippet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SetAndGet(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Set("a", "SELECT * FROM a"))

	body, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM a", body)
}

func TestRegistry_StoreRoundTrip(t *testing.T) {
	reg := NewRegistry()
	body := "SELECT *\nFROM a\nWHERE note = 'it''s (fine)'"
	require.NoError(t, reg.Store("first", body))

	got, err := reg.Get("first")
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestRegistry_GetUnknown(t *testing.T) {
	tests := []struct {
		name   string
		stored []string
		key    string
		want   string
	}{
		{
			name:   "invalid-key",
			stored: []string{"first"},
			key:    "second",
			want:   `"second" is not a valid snippet identifier. Valid identifiers are "first".`,
		},
		{
			name:   "close-match-key",
			stored: []string{"first"},
			key:    "firs",
			want:   `"firs" is not a valid snippet identifier. Did you mean "first"?`,
		},
		{
			name:   "multiple-existing-snippets",
			stored: []string{"first", "first2"},
			key:    "second",
			want:   `"second" is not a valid snippet identifier. Valid identifiers are "first", "first2".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			for _, name := range tt.stored {
				require.NoError(t, reg.Set(name, "SELECT * FROM a"))
			}

			_, err := reg.Get(tt.key)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.True(t, IsUnknownSnippetErr(err))
		})
	}
}

func TestRegistry_StoreHyphen(t *testing.T) {
	reg := NewRegistry()

	err := reg.Store("first-a", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Using hyphens is not allowed.")
	assert.True(t, IsInvalidIdentifierErr(err))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_StoreSelfReference(t *testing.T) {
	reg := NewRegistry()

	err := reg.Store("first", "SELECT * FROM first WHERE x > 20", "first")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot appear in with_ argument")
	assert.True(t, IsSelfReferenceErr(err))
	assert.False(t, IsInvalidIdentifierErr(err))

	_, ok := reg.Lookup("first")
	assert.False(t, ok, "rejected snippet must not be stored")
}

func TestRegistry_StoreDedupesDependencies(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Store("third", "SELECT 3", "second", "first", "second", "first"))

	s, ok := reg.Lookup("third")
	require.True(t, ok)
	assert.Equal(t, []string{"second", "first"}, s.DependsOn)
}

func TestRegistry_OverwriteReplacesDefinition(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Store("first", "SELECT * FROM a"))
	require.NoError(t, reg.Store("second", "SELECT * FROM b"))
	require.NoError(t, reg.Store("third", "SELECT * FROM first", "first"))

	require.NoError(t, reg.Store("third", "SELECT * FROM second", "second"))

	body, err := reg.Get("third")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM second", body)

	sql, err := reg.Render("SELECT * FROM third", []string{"third"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "WITH second AS (SELECT * FROM b), third AS (SELECT * FROM second)SELECT * FROM third", sql)
}

func TestRegistry_OverwriteKeepsInsertionPosition(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Set("a", "SELECT 1"))
	require.NoError(t, reg.Set("b", "SELECT 2"))
	require.NoError(t, reg.Set("a", "SELECT 3"))

	assert.Equal(t, []string{"a", "b"}, reg.Names())
	assert.Equal(t, 2, reg.Len())

	// a and b are both dependencies only, so insertion order decides: a was
	// first stored before b and keeps that position after the overwrite.
	require.NoError(t, reg.Store("c", "SELECT * FROM a, b", "b", "a"))
	sql, err := reg.Render("SELECT * FROM c", []string{"c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "WITH a AS (SELECT 3), b AS (SELECT 2), c AS (SELECT * FROM a, b)SELECT * FROM c", sql)
}

func TestRegistry_LookupReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Store("b", "SELECT 2", "a"))

	s, ok := reg.Lookup("b")
	require.True(t, ok)
	s.DependsOn[0] = "mutated"
	s.Body = "mutated"

	again, _ := reg.Lookup("b")
	assert.Equal(t, []string{"a"}, again.DependsOn)
	assert.Equal(t, "SELECT 2", again.Body)

	names := reg.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"b"}, reg.Names())
}

func TestRegistry_Snippets(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Set("z", "SELECT 26"))
	require.NoError(t, reg.Store("a", "SELECT 1", "z"))

	assert.Equal(t, []Snippet{
		{Name: "z", Body: "SELECT 26", DependsOn: []string{}},
		{Name: "a", Body: "SELECT 1", DependsOn: []string{"z"}},
	}, reg.Snippets())
}

func TestError_IsMatchesKindOnly(t *testing.T) {
	err := error(newError(KindCycleDetected, "a", "cycle"))

	assert.True(t, errors.Is(err, ErrCycleDetected))
	assert.False(t, errors.Is(err, ErrUnknownSnippet))
	assert.True(t, IsCycleErr(err))

	var snipErr *Error
	require.True(t, errors.As(err, &snipErr))
	assert.Equal(t, "cycle detected", snipErr.Kind.String())
}

func TestRegistry_PositionAndDelete(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Set("a", "SELECT 1"))
	require.NoError(t, reg.Store("b", "SELECT * FROM a", "a"))
	require.NoError(t, reg.Set("c", "SELECT 3"))

	assert.Equal(t, 1, reg.Position("b"))
	assert.Equal(t, -1, reg.Position("zzz"))

	assert.True(t, reg.Delete("a"))
	assert.False(t, reg.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, reg.Names())
	assert.Equal(t, 0, reg.Position("b"))

	// b still names a as a dependency and now fails to render.
	_, err := reg.Render("SELECT 1", []string{"b"}, nil)
	assert.True(t, IsUnknownDependencyErr(err))

	require.NoError(t, reg.Set("a", "SELECT 1"))
	assert.Equal(t, []string{"b", "c", "a"}, reg.Names())
}
