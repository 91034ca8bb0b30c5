// Package digester computes SHA256 digests of rendered content and of files
// on disk, so a generated file can be compared with what a fresh render would
// produce without rewriting it.
package digester
