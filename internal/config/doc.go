// Package config resolves the driver's settings once at startup. Values come
// from flags, the environment (PACKAGE_DIRECTORY, TARGET, ROOT and the
// PACKAGE_-prefixed knobs), an optional package.yaml, then defaults. The
// resulting Config is passed around explicitly; the process environment is
// never modified.
package config
