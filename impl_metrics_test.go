package disk_image_create

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsProgressSink(t *testing.T) {
	base := &recordSink{}
	sink := NewMetricsProgressSink(base)

	startedBefore := testutil.ToFloat64(imageCreateStarted)
	succeededBefore := testutil.ToFloat64(imageCreateSucceeded)
	failedBefore := testutil.ToFloat64(imageCreateFailed)
	mibBefore := testutil.ToFloat64(imageCreateMiBWritten)

	state := &imageState{}
	sink.ReportTotal(4, state)
	sink.ReportProgress(1, 4)
	sink.ReportProgress(1, 4) // repeated sample, no extra MiB counted
	sink.ReportProgress(4, 4)
	sink.ReportOutcome(true)

	require.Equal(t, startedBefore+1, testutil.ToFloat64(imageCreateStarted))
	require.Equal(t, succeededBefore+1, testutil.ToFloat64(imageCreateSucceeded))
	require.Equal(t, failedBefore, testutil.ToFloat64(imageCreateFailed))
	require.Equal(t, mibBefore+4, testutil.ToFloat64(imageCreateMiBWritten))

	// Everything is forwarded to the wrapped sink.
	require.EqualValues(t, 4, base.total)
	require.Len(t, base.progress, 3)
	require.Equal(t, []bool{true}, base.outcomes)

	sink.ReportTotal(2, state)
	sink.ReportOutcome(false)
	require.Equal(t, failedBefore+1, testutil.ToFloat64(imageCreateFailed))

	require.False(t, sink.ShouldCancel())
	base.wantCancel.Store(true)
	require.True(t, sink.ShouldCancel())
}
