// Package config loads and validates clipper configuration from TOML.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/clipper/config.toml, then ./clipper.toml, falling back to
// built-in defaults. Loading always normalizes (fills blanks, expands ~,
// reads env fallbacks) and validates before returning.
package config
