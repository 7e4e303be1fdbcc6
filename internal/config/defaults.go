package config

const (
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultBlockDuration  = 60.0
	defaultTolerateErrors = 10
	defaultConfigPath     = "~/.config/augment/config.toml"
	projectConfigName     = "augment.toml"

	// LogLevelEnv overrides Log.Level when set.
	LogLevelEnv = "AUGMENT_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Log: Log{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Execution: Execution{
			BlockDuration:  defaultBlockDuration,
			TolerateErrors: defaultTolerateErrors,
		},
	}
}
