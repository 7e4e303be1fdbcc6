package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/stepan-anokhin/audio-processor/internal/config"
	"github.com/stepan-anokhin/audio-processor/internal/logging"
	"github.com/stepan-anokhin/audio-processor/task"
)

type commandContext struct {
	settingsFlag *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger *logging.Logger
}

func newCommandContext(settingsFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		settingsFlag: settingsFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.settingsFlag != nil {
			path = strings.TrimSpace(*c.settingsFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Log.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the logger on first use. Records go to the command's
// stderr and the configured log file.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*logging.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}

	c.logger = logger
	return logger, nil
}

// executor returns a task executor configured from the [execution] section.
func (c *commandContext) executor(cmd *cobra.Command) (*task.Executor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := c.ensureLogger(cmd)
	if err != nil {
		return nil, err
	}

	opts := []task.Option{
		task.WithBlockDuration(cfg.Execution.BlockDuration),
		task.WithTolerance(cfg.Execution.TolerateErrors),
		task.WithStrictUniform(cfg.Execution.StrictUniform),
		task.WithLogger(logger),
	}
	if cfg.Execution.Workers > 0 {
		opts = append(opts, task.WithWorkers(cfg.Execution.Workers))
	}

	return task.NewExecutor(opts...), nil
}

func (c *commandContext) close() error {
	if c.logger == nil {
		return nil
	}
	if err := c.logger.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
