package disk_image_create

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageStateCounter(t *testing.T) {
	s := &imageState{}
	require.EqualValues(t, 0, s.units())
	s.publish(1)
	s.publish(4)
	require.EqualValues(t, 4, s.units())
}

func TestImageStateErrorKindIsSticky(t *testing.T) {
	s := &imageState{}
	require.False(t, s.terminal())
	require.Equal(t, errKindNone, s.errorKind())

	s.setError(errKindWrite)
	require.True(t, s.terminal())
	require.Equal(t, errKindWrite, s.errorKind())

	// A later failure must not overwrite the first recorded kind.
	s.setError(errKindCanceled)
	require.Equal(t, errKindWrite, s.errorKind())
}

func TestImageStateCancelLatch(t *testing.T) {
	s := &imageState{}
	require.False(t, s.isCanceled())
	s.RequestCancel()
	s.RequestCancel()
	require.True(t, s.isCanceled())
	// A pending cancel is not a terminal state by itself.
	require.False(t, s.terminal())

	s.markCompleted()
	require.True(t, s.terminal())
}

func TestErrorKindSentinel(t *testing.T) {
	require.ErrorIs(t, errKindPathExists.sentinel(), ErrPathExists)
	require.ErrorIs(t, errKindOpen.sentinel(), ErrOpen)
	require.ErrorIs(t, errKindWrite.sentinel(), ErrWrite)
	require.ErrorIs(t, errKindCanceled.sentinel(), ErrCanceled)
}
