package gate

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/curriculum-server-go/internal/features/outline"
)

func makeLecture(requires bool) outline.Lecture {
	lec := outline.Lecture{RequiresHomeworkCompletion: requires}
	lec.ID = uuid.New()
	return lec
}

func completedSet(ids ...uuid.UUID) func(outline.Lecture) (bool, error) {
	set := map[uuid.UUID]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return func(l outline.Lecture) (bool, error) { return set[l.ID], nil }
}

func TestDecideFirstLectureAlwaysAllowed(t *testing.T) {
	lectures := []outline.Lecture{makeLecture(true), makeLecture(true)}

	d, err := decide(lectures, 0, completedSet())
	require.NoError(t, err)
	assert.Equal(t, StatusAllowed, d.Status)
	assert.True(t, d.Allowed())
}

func TestDecideBadIndexIsNotFound(t *testing.T) {
	lectures := []outline.Lecture{makeLecture(false)}

	for _, index := range []int{-1, 1, 5} {
		d, err := decide(lectures, index, completedSet())
		require.NoError(t, err)
		assert.Equal(t, StatusNotFound, d.Status, "index %d", index)
		assert.False(t, d.Allowed())
	}
}

func TestDecideIntroScenario(t *testing.T) {
	// [L1(requires=false), L2(requires=true), L3(requires=false)], no
	// progress: index 0 and 1 open, index 2 locked behind L2.
	l1 := makeLecture(false)
	l2 := makeLecture(true)
	l3 := makeLecture(false)
	lectures := []outline.Lecture{l1, l2, l3}

	d, err := decide(lectures, 0, completedSet())
	require.NoError(t, err)
	assert.Equal(t, StatusAllowed, d.Status)

	d, err = decide(lectures, 1, completedSet())
	require.NoError(t, err)
	assert.Equal(t, StatusAllowed, d.Status, "L1 does not require completion")

	d, err = decide(lectures, 2, completedSet())
	require.NoError(t, err)
	assert.Equal(t, StatusLocked, d.Status)
	require.NotNil(t, d.PredecessorID)
	assert.Equal(t, l2.ID, *d.PredecessorID)

	// Completing L2 unlocks L3.
	d, err = decide(lectures, 2, completedSet(l2.ID))
	require.NoError(t, err)
	assert.Equal(t, StatusAllowed, d.Status)
}

func TestDecideOnlyImmediatePredecessorInspected(t *testing.T) {
	// L1 requires completion and was skipped, but the gate for index 2
	// only looks at L2.
	l1 := makeLecture(true)
	l2 := makeLecture(true)
	l3 := makeLecture(false)
	lectures := []outline.Lecture{l1, l2, l3}

	d, err := decide(lectures, 2, completedSet(l2.ID))
	require.NoError(t, err)
	assert.Equal(t, StatusAllowed, d.Status)
}

func TestDecideFailsClosedOnResolutionError(t *testing.T) {
	lectures := []outline.Lecture{makeLecture(true), makeLecture(false)}

	d, err := decide(lectures, 1, func(outline.Lecture) (bool, error) {
		return true, errors.New("store unavailable")
	})
	require.Error(t, err)
	assert.Equal(t, StatusLocked, d.Status)
	assert.False(t, d.Allowed())
}

func TestDecideNoProgressRecordLocks(t *testing.T) {
	lectures := []outline.Lecture{makeLecture(true), makeLecture(false)}

	d, err := decide(lectures, 1, completedSet())
	require.NoError(t, err)
	assert.Equal(t, StatusLocked, d.Status)
}
