package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/stepan-anokhin/audio-processor/task"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newProgress returns a task.Progress drawing a bar on writer and a
// function finishing it. Nothing is drawn unless writer is a terminal. A
// negative total draws a spinner.
func newProgress(writer io.Writer, total int64, unit, description string) (task.Progress, func()) {
	if !isTerminal(writer) {
		return nil, func() {}
	}

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetItsString(unit),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(writer, "\n") }),
	)

	progress := func(n int) { _ = bar.Add(n) }
	return progress, func() { _ = bar.Finish() }
}
