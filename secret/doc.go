// Package secret provides strict environment expansion for credential
// references in configuration.
//
// API keys never live in config files; config values reference them as
// `${ENV_VAR}` and expansion fails loudly when a referenced variable is
// absent, rather than silently producing an empty credential.
package secret
