// Package logging builds the slog loggers used across partscout.
//
// Two output formats are supported: a pretty console format that prefixes
// records with a component label and renders attributes as key=value pairs,
// and a JSON format for machine consumption. When no format is configured the
// console format is chosen for terminals and JSON otherwise.
package logging
