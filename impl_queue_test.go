package disk_image_create

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskQueueOwnership(t *testing.T) {
	q := NewTaskQueue()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		q.Run(ctx)
	}()

	require.False(t, q.owns(context.Background()))

	other := NewTaskQueue()
	results := make(chan [2]bool, 1)
	q.Post(func(taskCtx context.Context) {
		results <- [2]bool{q.owns(taskCtx), other.owns(taskCtx)}
	})
	got := <-results
	require.True(t, got[0], "task context should belong to its own queue")
	require.False(t, got[1], "task context should not belong to another queue")

	cancel()
	<-stopped
}

func TestTaskQueueRunsTasksInOrder(t *testing.T) {
	q := NewTaskQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	var order []int
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		i := i
		q.Post(func(context.Context) {
			order = append(order, i)
			if i == 2 {
				close(done)
			}
		})
	}
	<-done
	require.Equal(t, []int{0, 1, 2}, order)
}
