// Package config manages leadscout configuration.
//
// Configuration comes from three sources, in increasing precedence:
// built-in defaults, the optional YAML config file (.leadscout), and CLI
// flags. The Config struct is passed through the application via dependency
// injection; there is no global configuration state.
package config
