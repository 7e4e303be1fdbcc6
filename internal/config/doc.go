// Package config loads, normalizes, and validates augment settings.
//
// Settings live in a TOML file with a [log] section (level, format, optional
// log file) and an [execution] section (block duration, tolerated failures,
// worker count, strict uniform mode). A missing file yields the defaults, and
// AUGMENT_LOG_LEVEL overrides the configured level.
package config
