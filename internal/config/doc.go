// Package config loads the vaultpipe configuration.
//
// Precedence, lowest to highest: built-in defaults, the TOML config file
// (default ~/.config/vaultpipe/config.toml), environment variables, and
// command-line flags (applied by the cmd package only when set).
package config
