package disk_image_create

import "sync/atomic"

type errorKind int32

const (
	errKindNone errorKind = iota
	errKindPathExists
	errKindOpen
	errKindWrite
	errKindCanceled
)

func (k errorKind) String() string {
	switch k {
	case errKindNone:
		return "none"
	case errKindPathExists:
		return "path_exists"
	case errKindOpen:
		return "open_failure"
	case errKindWrite:
		return "seek_or_write_failure"
	case errKindCanceled:
		return "user_canceled"
	default:
		return "unknown"
	}
}

func (k errorKind) sentinel() error {
	switch k {
	case errKindPathExists:
		return ErrPathExists
	case errKindOpen:
		return ErrOpen
	case errKindCanceled:
		return ErrCanceled
	default:
		return ErrWrite
	}
}

// imageState is the shared state between the write worker, the monitor loop
// and cancelers. The unit counter only grows and the latches only flip from
// false to true, so plain atomic loads and stores are enough on both sides.
type imageState struct {
	unitsDone atomic.Int64
	kind      atomic.Int32

	errored   atomic.Bool
	canceled  atomic.Bool
	completed atomic.Bool
}

// publish is called by the write worker only, with strictly increasing
// values.
func (s *imageState) publish(units int64) {
	s.unitsDone.Store(units)
}

func (s *imageState) units() int64 {
	return s.unitsDone.Load()
}

// setError records the kind of the first failure and flips the error latch.
// Later calls keep the original kind.
func (s *imageState) setError(k errorKind) {
	s.kind.CompareAndSwap(int32(errKindNone), int32(k))
	s.errored.Store(true)
}

func (s *imageState) errorKind() errorKind {
	return errorKind(s.kind.Load())
}

func (s *imageState) markCompleted() {
	s.completed.Store(true)
}

// RequestCancel implements Canceler.
func (s *imageState) RequestCancel() {
	s.canceled.Store(true)
}

func (s *imageState) isCanceled() bool {
	return s.canceled.Load()
}

// terminal reports whether the worker has finished, either way. A pending
// cancel request is not terminal until the worker observes it.
func (s *imageState) terminal() bool {
	return s.completed.Load() || s.errored.Load()
}
