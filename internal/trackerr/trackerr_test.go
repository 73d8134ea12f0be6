package trackerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
)

func TestKindOfAndIs(t *testing.T) {
	err := trackerr.New(trackerr.KindRange, "split", "%v lies on a boundary", 10)
	assert.Equal(t, trackerr.KindRange, trackerr.KindOf(err))
	assert.True(t, errors.Is(err, trackerr.ErrRange))
	assert.False(t, errors.Is(err, trackerr.ErrAdjacency))
	assert.Equal(t, "split: 10 lies on a boundary", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := trackerr.New(trackerr.KindOutOfBounds, "intersecting", "outside track")
	err := fmt.Errorf("editing: %w", trackerr.Wrap(trackerr.KindRange, "split", cause, "cannot split"))

	assert.Equal(t, trackerr.KindRange, trackerr.KindOf(err))
	assert.True(t, errors.Is(err, trackerr.ErrRange))
	assert.True(t, errors.Is(err, trackerr.ErrOutOfBounds))
	assert.Equal(t, "editing: split: cannot split: intersecting: outside track", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, trackerr.KindUnknown, trackerr.KindOf(errors.New("plain")))
	assert.False(t, trackerr.Recoverable(nil))
	assert.True(t, trackerr.Recoverable(trackerr.New(trackerr.KindValue, "", "bad")))
}

func TestFatalfPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.Equal(t, trackerr.KindProgramming, trackerr.KindOf(err))
		assert.False(t, trackerr.Recoverable(err))
	}()
	trackerr.Fatalf("join", "segments %d and %d are both zero-length", 3, 4)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "adjacency", trackerr.KindAdjacency.String())
	assert.Equal(t, "kind(99)", trackerr.Kind(99).String())
}
