package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLog(); err != nil {
		return err
	}
	if err := c.validateExecution(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLog() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unsupported value %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q (want text or json)", c.Log.Format)
	}

	return nil
}

func (c *Config) validateExecution() error {
	d := c.Execution.BlockDuration
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return fmt.Errorf("execution.block_duration must be positive, got %v", d)
	}
	if c.Execution.TolerateErrors < 0 {
		return errors.New("execution.tolerate_errors must be non-negative")
	}
	if c.Execution.Workers < 0 {
		return errors.New("execution.workers must be non-negative")
	}
	return nil
}
