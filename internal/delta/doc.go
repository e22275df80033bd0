// Package delta defines the structured contract between the pyact helper and
// the dispatcher. The helper never prints shell code; it prints one JSON
// document listing environment variables to set or unset, and the dispatcher
// decodes, validates and applies it.
package delta
