// Package config loads, normalizes, and validates partscout configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AMAZON_PAAPI_ACCESS_KEY. The Config type centralizes every knob the CLI
// needs, so catalog paths and search credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
