// Package dispatch walks the manifest and hands each selected package to an
// interpreter, strictly one package at a time and in file order.
package dispatch
