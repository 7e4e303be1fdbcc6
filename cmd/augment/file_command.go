package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stepan-anokhin/audio-processor/audiofile"
	"github.com/stepan-anokhin/audio-processor/task"
)

func newFileCommand(ctx *commandContext) *cobra.Command {
	var flags transformFlags

	cmd := &cobra.Command{
		Use:   "file <input> <output>",
		Short: "Transform a single file, processing blocks in parallel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]

			spec, err := flags.load(false)
			if err != nil {
				return err
			}

			if !audiofile.Readable(input) {
				return fmt.Errorf("%s: %w", input, audiofile.ErrUnsupportedFormat)
			}
			if !audiofile.Writable(output) {
				return fmt.Errorf("%s: %w", output, audiofile.ErrUnsupportedFormat)
			}

			executor, err := ctx.executor(cmd)
			if err != nil {
				return err
			}

			transform, err := executor.BuildTransform(spec.Transforms)
			if err != nil {
				return err
			}

			total, err := probeSamples(input)
			if err != nil {
				return err
			}

			progress, finish := newProgress(cmd.ErrOrStderr(), total, "samples", filepath.Base(input))

			start := time.Now()
			err = executor.ExecuteFile(cmd.Context(), task.FileTask{
				InputPath:  input,
				OutputPath: output,
				Transform:  transform,
			}, progress)
			finish()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Done! Elapsed time: %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// probeSamples returns the number of samples per channel of path, or -1
// when the container does not record a length.
func probeSamples(path string) (int64, error) {
	r, err := audiofile.Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	if n := r.Samples(); n > 0 {
		return int64(n), nil
	}
	return -1, nil
}
