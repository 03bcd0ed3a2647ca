package disk_image_create

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompletionGateWaitAfterSignal(t *testing.T) {
	g := newCompletionGate()
	g.signal()
	// Must not block even though wait starts after the fact.
	g.wait()
	g.wait()
}

func TestCompletionGateSignalIsIdempotent(t *testing.T) {
	g := newCompletionGate()
	g.signal()
	require.NotPanics(t, g.signal)
	g.wait()
}

func TestCompletionGateReleasesAllWaiters(t *testing.T) {
	g := newCompletionGate()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.wait()
		}()
	}
	g.signal()
	wg.Wait()
}
