package removal

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hvprm/internal/testutil"
)

func TestCountOrDeleteActivities_NoActivities(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	c := NewCascadeRemover(m, m)

	n, err := c.CountOrDeleteActivities(context.Background(), lib, true)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = c.CountOrDeleteActivities(context.Background(), lib, false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, m.Calls)
}

func TestCountOrDeleteActivities_DryRunIsIdempotent(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	other := m.AddLibrary(testLibrary("other_library"))
	m.AddActivity(lib.ID, "one")
	m.AddActivity(lib.ID, "two")
	m.AddActivity(other.ID, "unrelated")
	c := NewCascadeRemover(m, m)

	for i := 0; i < 2; i++ {
		n, err := c.CountOrDeleteActivities(context.Background(), lib, true)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}
	assert.Equal(t, 3, m.ActivityCount())
	assert.Empty(t, m.Calls)
}

func TestCountOrDeleteActivities_Deletes(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	other := m.AddLibrary(testLibrary("other_library"))
	m.AddActivity(lib.ID, "one")
	m.AddActivity(lib.ID, "two")
	m.AddActivity(other.ID, "unrelated")
	c := NewCascadeRemover(m, m)

	n, err := c.CountOrDeleteActivities(context.Background(), lib, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, m.ActivityCount())

	n, err = c.CountOrDeleteActivities(context.Background(), lib, false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCountOrDeleteActivities_StopsOnFirstFailure(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	a1 := m.AddActivity(lib.ID, "one")
	a2 := m.AddActivity(lib.ID, "two")
	a3 := m.AddActivity(lib.ID, "three")
	cause := errors.New("course module missing")
	m.FailDeleteModule[a2.ID] = cause
	c := NewCascadeRemover(m, m)

	n, err := c.CountOrDeleteActivities(context.Background(), lib, false)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrActivityDeletionFailed)
	assert.ErrorIs(t, err, cause)

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1, re.Deleted)
	assert.Equal(t, a2.ID, re.ActivityID)

	// The loop aborted: a3 was never attempted.
	assert.Equal(t, []string{
		fmt.Sprintf("DeleteModule(%d)", a1.ID),
		fmt.Sprintf("DeleteModule(%d)", a2.ID),
	}, m.Calls)
	assert.NotContains(t, m.Calls, fmt.Sprintf("DeleteModule(%d)", a3.ID))
	assert.Equal(t, 2, m.ActivityCount())
}

func TestCountOrDeleteActivities_CancelledContext(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	m.AddActivity(lib.ID, "one")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := NewCascadeRemover(m, m).CountOrDeleteActivities(ctx, lib, false)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, ErrActivityDeletionFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, m.ActivityCount())
}
