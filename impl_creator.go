package disk_image_create

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultPollInterval = 50 * time.Millisecond

type creatorImpl struct {
	sink   ProgressSink
	queue  *TaskQueue
	open   openImageFunc
	poll   time.Duration
	logger zerolog.Logger
}

// Option configures a Creator.
type Option func(*creatorImpl)

// WithLogger replaces the default no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *creatorImpl) { c.logger = logger }
}

// WithPollInterval changes the cadence of the monitor loop that forwards
// progress to the sink.
func WithPollInterval(d time.Duration) Option {
	return func(c *creatorImpl) { c.poll = d }
}

// NewCreator returns a Creator reporting to sink. queue designates the
// goroutine that owns the sink: Create invocations whose context does not
// descend from queue.Run are marshaled onto it and block until done there.
// A nil queue makes Create always run on the calling goroutine.
func NewCreator(sink ProgressSink, queue *TaskQueue, opts ...Option) Creator {
	c := &creatorImpl{
		sink:   sink,
		queue:  queue,
		open:   openImageOS,
		poll:   defaultPollInterval,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Create implements Creator.
func (c *creatorImpl) Create(ctx context.Context, req Request) error {
	if req.SizeBytes == 0 {
		return errors.Errorf("image size should be positive, got: %d", req.SizeBytes)
	}

	if c.queue == nil || c.queue.owns(ctx) {
		return c.create(ctx, req)
	}

	// Re-enter on the owning goroutine and block here until it is done.
	var result error
	gate := newCompletionGate()
	c.queue.Post(func(context.Context) {
		result = c.create(ctx, req)
		gate.signal()
	})
	gate.wait()
	return result
}

// create runs on the owning goroutine. It spawns the write worker, polls the
// shared state at a fixed cadence to refresh the sink and to sample
// cancellation, and maps the terminal state to the returned error.
func (c *creatorImpl) create(ctx context.Context, req Request) error {
	totalUnits := byteSizeToUnitCnt(req.SizeBytes)
	state := &imageState{}

	c.sink.ReportTotal(totalUnits, state)

	worker := &writeWorker{
		state:  state,
		open:   c.open,
		now:    time.Now,
		logger: c.logger,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.run(req.Path, req.SizeBytes)
	}()

	ticker := time.NewTicker(c.poll)
	for !state.terminal() {
		<-ticker.C
		c.sink.ReportProgress(state.units(), totalUnits)
		if ctx.Err() != nil || c.sink.ShouldCancel() {
			state.RequestCancel()
		}
	}
	ticker.Stop()
	<-done

	var err error
	if kind := state.errorKind(); kind != errKindNone {
		err = errors.Wrapf(kind.sentinel(),
			"creating disk image %q (%d bytes)", req.Path, req.SizeBytes)
	}

	c.sink.ReportProgress(state.units(), totalUnits)
	c.sink.ReportOutcome(err == nil)
	return err
}
