// Package cli defines the Cobra command tree for the package driver. Each
// file registers one top-level command with the root command; build and
// install share the dispatch code in operate.go. Commands resolve the
// configuration per invocation and only handle flags and output, leaving
// manifest handling and script execution to the internal packages.
package cli
