package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stepan-anokhin/audio-processor/audiofile"
	"github.com/stepan-anokhin/audio-processor/dsp/signal"
	"github.com/stepan-anokhin/audio-processor/dsp/transform"
	"github.com/stepan-anokhin/audio-processor/internal/workpool"
)

const (
	// DefaultBlockDuration is the read block length in seconds.
	DefaultBlockDuration = audiofile.DefaultBlockDuration

	// DefaultTolerance is the number of failed files Execute accepts
	// before aborting.
	DefaultTolerance = 10
)

// Progress is called with the amount of work just completed: one per file
// in Execute, the number of samples per block in ExecuteFile. Calls are
// never concurrent.
type Progress func(n int)

// FileTask is the unit of work of Execute: one input file transformed
// into one output file.
type FileTask struct {
	InputPath     string
	OutputPath    string
	Transform     transform.Transform
	BlockDuration float64
}

// Executor runs task specs over audio files.
type Executor struct {
	registry      *Registry
	codec         audiofile.Codec
	blockDuration float64
	tolerance     int
	workers       int
	log           logrus.FieldLogger
	strictUniform bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithRegistry sets the registry used to build transforms.
func WithRegistry(r *Registry) Option {
	return func(e *Executor) { e.registry = r }
}

// WithCodec sets the codec used to read and write audio.
func WithCodec(c audiofile.Codec) Option {
	return func(e *Executor) { e.codec = c }
}

// WithBlockDuration sets the read block length in seconds.
func WithBlockDuration(seconds float64) Option {
	return func(e *Executor) { e.blockDuration = seconds }
}

// WithTolerance sets how many failed files Execute accepts.
func WithTolerance(n int) Option {
	return func(e *Executor) { e.tolerance = n }
}

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) Option {
	return func(e *Executor) { e.workers = n }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Executor) { e.log = l }
}

// WithStrictUniform makes ExecuteFile reject non-uniform transforms
// instead of warning about them.
func WithStrictUniform(strict bool) Option {
	return func(e *Executor) { e.strictUniform = strict }
}

// NewExecutor returns an Executor using the default registry, the file
// system codec, 60 s blocks, a tolerance of 10 failures and one worker
// per CPU.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		blockDuration: DefaultBlockDuration,
		tolerance:     DefaultTolerance,
		workers:       runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = DefaultRegistry()
	}

	if e.codec == nil {
		e.codec = audiofile.Default
	}

	if e.log == nil {
		e.log = logrus.StandardLogger()
	}

	if e.workers < 1 {
		e.workers = 1
	}

	return e
}

// Registry returns the registry transforms are built from.
func (e *Executor) Registry() *Registry { return e.registry }

// BuildTransform builds the composite transform described by specs.
func (e *Executor) BuildTransform(specs []TransformSpec) (*transform.Composite, error) {
	return e.registry.Build(specs)
}

// Subtasks builds the transform of spec and returns one FileTask per
// matching input file. The transform is built before the input root is
// scanned, so configuration errors surface without touching the file
// system.
func (e *Executor) Subtasks(spec *TaskSpec) ([]FileTask, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	t, err := e.registry.Build(spec.Transforms)
	if err != nil {
		return nil, err
	}

	files, err := inputFiles(spec.InputRoot, spec.InputPattern)
	if err != nil {
		return nil, err
	}

	outputRoot := spec.OutputRoot
	if outputRoot == "" {
		outputRoot = spec.InputRoot
	}

	pattern := spec.OutputPattern
	if pattern == "" {
		pattern = DefaultOutputPattern
	}

	tasks := make([]FileTask, len(files))
	for i, f := range files {
		tasks[i] = FileTask{
			InputPath:     filepath.Join(spec.InputRoot, filepath.FromSlash(f.rel)),
			OutputPath:    ResolveOutput(f.rel, outputRoot, pattern),
			Transform:     t,
			BlockDuration: e.blockDuration,
		}
	}

	return tasks, nil
}

// Stats counts the input files of spec and their total size.
func (e *Executor) Stats(spec *TaskSpec) (Stats, error) {
	return CollectStats(spec)
}

// Execute runs every subtask of spec, one file per worker.
func (e *Executor) Execute(ctx context.Context, spec *TaskSpec, progress Progress) error {
	tasks, err := e.Subtasks(spec)
	if err != nil {
		return err
	}

	return e.ExecuteTasks(ctx, tasks, progress)
}

// ExecuteTasks runs tasks concurrently, one file per worker, and
// consumes results in completion order. Failed files are logged and
// counted. Once more than the tolerated number have failed, no further
// files are started, running ones are allowed to finish, and a
// *TaskExecutionError is returned.
func (e *Executor) ExecuteTasks(ctx context.Context, tasks []FileTask, progress Progress) error {
	log := e.log.WithField("run", xid.New().String())
	log.WithFields(logrus.Fields{"files": len(tasks), "workers": e.workers}).Info("batch started")

	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := func(_ context.Context, t FileTask) (struct{}, error) {
		return struct{}{}, e.processFile(t)
	}

	var (
		failed  []FailedTask
		done    int
		aborted bool
	)

	for res := range workpool.Unordered(runCtx, e.workers, workpool.Feed(runCtx, tasks), run) {
		if aborted {
			continue
		}

		if res.Err != nil {
			failed = append(failed, FailedTask{Task: res.Item, Err: res.Err})
			logFailure(log, res.Item, res.Err)

			if len(failed) > e.tolerance {
				aborted = true
				cancel()
				continue
			}
		}

		done++
		if progress != nil {
			progress(1)
		}
	}

	fields := logrus.Fields{"done": done, "failed": len(failed), "elapsed": time.Since(start).Round(time.Millisecond)}

	if aborted {
		log.WithFields(fields).Error("batch aborted")
		return &TaskExecutionError{Failed: failed, Tolerance: e.tolerance}
	}

	if err := ctx.Err(); err != nil {
		log.WithFields(fields).Warn("batch cancelled")
		return err
	}

	log.WithFields(fields).Info("batch finished")

	return nil
}

func logFailure(log logrus.FieldLogger, t FileTask, err error) {
	log.WithFields(logrus.Fields{
		"input":      t.InputPath,
		"output":     t.OutputPath,
		"error_type": fmt.Sprintf("%T", rootCause(err)),
	}).WithError(err).Error("subtask failed")
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func (e *Executor) blockOption(t FileTask) audiofile.ReadOption {
	if t.BlockDuration > 0 {
		return audiofile.WithBlockDuration(t.BlockDuration)
	}
	return audiofile.WithBlockDuration(e.blockDuration)
}

// processFile reads, transforms and writes a single file sequentially.
func (e *Executor) processFile(t FileTask) (err error) {
	if err := prepareOutput(t.OutputPath); err != nil {
		return err
	}

	in, err := e.codec.Open(t.InputPath, e.blockOption(t))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, in.Close())
	}()

	out, err := e.codec.Create(t.OutputPath, in.Rate())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	for index := 0; ; index++ {
		block, err := in.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		y, err := t.Transform.Apply(block)
		if err != nil {
			return fmt.Errorf("block %d: %w", index, err)
		}

		if _, err := out.Write(y); err != nil {
			return err
		}
	}
}

// prepareOutput removes a previous output file and creates its directory.
func prepareOutput(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove previous output: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return nil
}

// ExecuteFile processes a single file with block-level parallelism: the
// calling goroutine reads blocks, workers transform them, and results are
// written in their original order. Any failure aborts the whole file.
//
// Splitting a non-uniform transform into blocks introduces artifacts at
// block boundaries. Such transforms are accepted with a warning unless
// the executor was created WithStrictUniform, in which case
// ErrNonUniform is returned before any I/O.
func (e *Executor) ExecuteFile(ctx context.Context, t FileTask, progress Progress) (err error) {
	log := e.log.WithFields(logrus.Fields{
		"run":    xid.New().String(),
		"input":  t.InputPath,
		"output": t.OutputPath,
	})

	if !t.Transform.Uniform() {
		if e.strictUniform {
			return fmt.Errorf("%w: %T", ErrNonUniform, t.Transform)
		}
		log.Warn("transform is not uniform, block boundaries may produce artifacts")
	}

	if err := prepareOutput(t.OutputPath); err != nil {
		return err
	}

	in, err := e.codec.Open(t.InputPath, e.blockOption(t))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, in.Close())
	}()

	out, err := e.codec.Create(t.OutputPath, in.Rate())
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"rate":       in.Rate(),
		"channels":   in.Channels(),
		"block_size": in.BlockSize(),
		"workers":    e.workers,
	}).Info("file started")

	start := time.Now()

	err = e.stream(ctx, in, out, t.Transform, progress)
	err = errors.Join(err, out.Close())

	if err != nil {
		log.WithError(err).Error("file failed")
		return err
	}

	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("file finished")

	return nil
}

func (e *Executor) stream(ctx context.Context, in audiofile.Reader, out audiofile.Writer, tr transform.Transform, progress Progress) error {
	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	blocks := make(chan signal.Signal)

	g.Go(func() error {
		defer close(blocks)

		for {
			block, err := in.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			select {
			case blocks <- block:
			case <-runCtx.Done():
				return nil
			}
		}
	})

	apply := func(_ context.Context, block signal.Signal) (signal.Signal, error) {
		return tr.Apply(block)
	}
	results := workpool.Ordered(runCtx, e.workers, blocks, apply)

	g.Go(func() error {
		var err error

		for res := range results {
			if err != nil {
				continue
			}

			if res.Err != nil {
				err = fmt.Errorf("block %d: %w", res.Index, res.Err)
				cancel()
				continue
			}

			if _, werr := out.Write(res.Value); werr != nil {
				err = fmt.Errorf("block %d: %w", res.Index, werr)
				cancel()
				continue
			}

			if progress != nil {
				progress(res.Item.Samples())
			}
		}

		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}
