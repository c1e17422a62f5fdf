// Package logging renders zerolog events as the driver's console lines:
// every line starts with the coloured branding prefix (PACKAGE:) followed
// by the message, so both informational output and errors share one look.
package logging
