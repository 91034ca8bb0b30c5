// Package settings holds the file locations and log level of the preseed
// generator. Values come from PRESEED_* environment variables and may be
// overridden by command-line flags before Validate and the path helpers are
// used.
package settings
