// Package platform reports facts about the host the driver runs on. The
// machine string is what package scripts see as the default TARGET, so it
// follows uname(2) naming (x86_64, aarch64) rather than Go's GOARCH names.
package platform
