package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/stepan-anokhin/audio-processor/task"
)

const lockFileName = ".augment.lock"

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var (
		flags         transformFlags
		inputRoot     string
		inputPattern  string
		outputRoot    string
		outputPattern string
		savePath      string
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "files",
		Short: "Transform every file matching a pattern, one file per worker",
		Long: `Transform every file under the input root whose path matches the input
pattern. Output paths are built from the output pattern, which may use the
tokens {relpath}, {reldir}, {name} and {ext} of each input file.

Flags override the corresponding fields of the task spec given with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.load(true)
			if err != nil {
				return err
			}

			override := func(dst *string, flag, value string) {
				if cmd.Flags().Changed(flag) {
					*dst = value
				}
			}
			override(&spec.InputRoot, "input-root", inputRoot)
			override(&spec.InputPattern, "input-pattern", inputPattern)
			override(&spec.OutputRoot, "output-root", outputRoot)
			override(&spec.OutputPattern, "output-pattern", outputPattern)

			if strings.TrimSpace(spec.InputRoot) == "" {
				spec.InputRoot = "."
			}
			spec.Normalize()

			if err := spec.Validate(); err != nil {
				return err
			}

			if savePath != "" {
				if err := spec.Save(savePath); err != nil {
					return fmt.Errorf("save task spec: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved task spec to %s\n", savePath)
			}

			executor, err := ctx.executor(cmd)
			if err != nil {
				return err
			}

			tasks, err := executor.Subtasks(spec)
			if err != nil {
				return err
			}

			stats, err := executor.Stats(spec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %s files (%s)\n", humanize.Comma(int64(stats.TotalFiles)), humanize.Bytes(uint64(stats.TotalBytes)))

			if dryRun {
				rows := make([][]string, len(tasks))
				for i, t := range tasks {
					rows[i] = []string{t.InputPath, t.OutputPath}
				}
				fmt.Fprintln(out, renderTable([]string{"Input", "Output"}, rows, nil))
				return nil
			}

			unlock, err := lockOutput(spec.OutputRoot)
			if err != nil {
				return err
			}
			defer unlock()

			progress, finish := newProgress(cmd.ErrOrStderr(), int64(len(tasks)), "files", "augment")

			start := time.Now()
			err = executor.ExecuteTasks(cmd.Context(), tasks, progress)
			finish()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Done! Elapsed time: %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&inputRoot, "input-root", "", "Directory scanned for input files (default \".\")")
	cmd.Flags().StringVar(&inputPattern, "input-pattern", "", "Glob matched against the trailing path components of input files")
	cmd.Flags().StringVar(&outputRoot, "output-root", "", "Directory outputs are written under (default input root)")
	cmd.Flags().StringVar(&outputPattern, "output-pattern", "", "Output path template (default \""+task.DefaultOutputPattern+"\")")
	cmd.Flags().StringVar(&savePath, "save", "", "Write the resulting task spec to this file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the planned input and output paths without processing")
	return cmd
}

// lockOutput takes an exclusive lock on outputRoot so that concurrent runs
// cannot write into the same tree. The lock is taken after the input scan,
// so the lock file is never picked up as an input.
func lockOutput(outputRoot string) (func(), error) {
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}

	path := filepath.Join(outputRoot, lockFileName)
	lock := flock.New(path)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another augment run is writing to " + outputRoot)
	}

	return func() {
		_ = lock.Unlock()
		_ = os.Remove(path)
	}, nil
}
