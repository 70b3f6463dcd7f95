// Package config loads library configuration from the environment and
// optional YAML files.
//
// Precedence is defaults, then file values, then environment variables.
// API keys are referenced as ${ENV_VAR} and resolved strictly, so a
// missing credential fails at load time instead of at the first call.
package config
