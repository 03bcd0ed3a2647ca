package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	diskimage "github.com/lance6716/disk-image-create"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// consoleSink prints progress to stderr the way the hosting emulator's
// progress dialog shows it.
type consoleSink struct {
	out *os.File
}

func (s *consoleSink) ReportTotal(totalUnits int64, _ diskimage.Canceler) {
	fmt.Fprintf(s.out, "Creating HDD file (%d MiB)\n", totalUnits)
}

func (s *consoleSink) ReportProgress(currentUnits, totalUnits int64) {
	fmt.Fprintf(s.out, "\r%d / %d MiB", currentUnits, totalUnits)
}

func (s *consoleSink) ShouldCancel() bool {
	return false
}

func (s *consoleSink) ReportOutcome(succeeded bool) {
	fmt.Fprintln(s.out)
	if !succeeded {
		fmt.Fprintln(s.out, "Failed to create HDD file")
	}
}

func main() {
	path := pflag.String("path", "", "destination of the image file")
	sizeMiB := pflag.Uint64("size-mib", 0, "image size in MiB")
	metricsListen := pflag.String("metrics-listen", "", "optional address to serve Prometheus metrics on while creating")
	verbose := pflag.Bool("verbose", false, "log worker errors to stderr")
	pflag.Parse()

	if *path == "" || *sizeMiB == 0 {
		log.Fatal("Usage: diskimagecreate --path <file> --size-mib <n>")
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	var sink diskimage.ProgressSink = &consoleSink{out: os.Stderr}
	if *metricsListen != "" {
		sink = diskimage.NewMetricsProgressSink(sink)
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			log.Fatal(http.ListenAndServe(*metricsListen, nil))
		}()
	}

	// Ctrl-C cancels the write; the partial file is removed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creator := diskimage.NewCreator(sink, nil, diskimage.WithLogger(logger))
	err := creator.Create(ctx, diskimage.Request{
		Path:      *path,
		SizeBytes: *sizeMiB << 20,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
