// Package generator renders preseed.cfg. A Generator checks that the config
// and template files exist, loads the value mapping (stamp files, config
// file, then explicit variables), substitutes the template placeholders and
// writes the output file. Check performs the same render without writing and
// reports whether the existing output is up to date.
package generator
