/*
Package config loads daemon configuration.

Configuration layers, lowest priority first: built-in defaults, an
optional YAML file, then environment variables (loaded through a .env
file when present). Anchor clock times and recovery thresholds are
validated on load; evaluator cadences below the platform floors are
clamped up rather than rejected.
*/
package config
