// Package config loads and merges application configuration from
// environment variables, command-line flags, and an optional JSON file.
//
// Sources are merged with mergo in priority order (environment first,
// then flags, then the JSON file for fields still unset), and the final
// result is validated before use. Both the server and the client binary
// share this package; the client obtains a narrowed view via
// GetClientConfig.
package config
