// Package manifest reads the PACKAGES file. The format is line oriented:
// a package name on a line of its own, followed by directive lines that
// each start with a two-character indentation marker, and a blank line
// closing the entry. The Scanner walks the file forward only and hands out
// one Entry at a time; ParseFile and Validate build on it for the
// list/show/check commands.
package manifest
