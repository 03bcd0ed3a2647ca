package disk_image_create

import "sync"

// completionGate is a one-shot cross-goroutine wake. signal may be called
// any number of times; wait returns once signal has run, even if wait starts
// afterwards.
type completionGate struct {
	once sync.Once
	done chan struct{}
}

func newCompletionGate() *completionGate {
	return &completionGate{done: make(chan struct{})}
}

func (g *completionGate) signal() {
	g.once.Do(func() { close(g.done) })
}

func (g *completionGate) wait() {
	<-g.done
}
