// Package config loads hrflow configuration with the precedence
// defaults -> optional YAML file -> environment variables. The approval
// threshold additionally has a live env-backed source (EnvThresholdSource)
// that is re-read on every workflow execution, since the value may change
// between invocations.
package config
