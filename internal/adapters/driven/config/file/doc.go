// Package file provides the TOML-backed ConfigStore adapter. Settings
// live in a single config.toml under the curator config directory and
// nested tables are exposed as dot-notation keys.
package file
