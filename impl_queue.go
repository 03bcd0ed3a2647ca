package disk_image_create

import "context"

type taskQueueKey struct{}

// TaskQueue is a single-consumer queue of tasks bound to one goroutine, the
// owning context. The goroutine that calls Run owns whatever resources the
// tasks touch (typically the ProgressSink). Other goroutines hand work over
// with Post.
type TaskQueue struct {
	tasks chan func(context.Context)
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{tasks: make(chan func(context.Context))}
}

// Post enqueues a task for the owning goroutine. It blocks until the
// consumer accepts the task, so it must not be called from the consumer
// itself.
func (q *TaskQueue) Post(task func(context.Context)) {
	q.tasks <- task
}

// Run consumes tasks until ctx is canceled. The context passed to each task
// carries a token identifying this queue, so code running inside a task can
// tell it is already on the owning goroutine.
func (q *TaskQueue) Run(ctx context.Context) {
	ctx = context.WithValue(ctx, taskQueueKey{}, q)
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-q.tasks:
			task(ctx)
		}
	}
}

// owns reports whether ctx descends from this queue's Run loop.
func (q *TaskQueue) owns(ctx context.Context) bool {
	v, _ := ctx.Value(taskQueueKey{}).(*TaskQueue)
	return v == q
}
