// Package interpreter defines the Interpreter interface that runs one
// package's directives and provides implementations for an external POSIX
// shell and for the built-in mvdan.cc/sh interpreter. The Dispatch function
// selects the implementation by name.
package interpreter
