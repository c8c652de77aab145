// Package file implements TOML-backed configuration for the docqa
// pipelines. Settings live in a single config.toml under the docqa
// config directory; missing files and missing sections fall back to
// defaults, and invalid values are rejected before anything runs.
package file
