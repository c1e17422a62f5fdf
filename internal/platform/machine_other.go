//go:build !unix

package platform

// Machine returns a uname-style machine name derived from GOARCH.
func Machine() string {
	return fallbackMachine()
}
