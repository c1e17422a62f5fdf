//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// packageScript builds into $ROOT/build and installs into $ROOT/usr. Each
// package sets VERSION through its directives.
const packageScript = `build_package() {
	mkdir -p "$ROOT/build"
	echo "$PACKAGE $VERSION $TARGET" > "$ROOT/build/$PACKAGE"
}

install_package() {
	[ -f "$ROOT/build/$PACKAGE" ] || return 4
	mkdir -p "$ROOT/usr"
	cp "$ROOT/build/$PACKAGE" "$ROOT/usr/$PACKAGE"
}
`

// testEnv holds paths to isolated test directories.
type testEnv struct {
	PackageDir string // PACKAGE_DIRECTORY, holds PACKAGES and package/package.sh
	RootDir    string // ROOT, where the script builds and installs
}

// setupTestEnv creates isolated temp directories and sets the environment
// variables package scripts read. The env vars are restored after the test.
func setupTestEnv(t *testing.T, manifest string) *testEnv {
	t.Helper()

	env := &testEnv{
		PackageDir: t.TempDir(),
		RootDir:    t.TempDir(),
	}

	t.Setenv("PACKAGE_DIRECTORY", env.PackageDir)
	t.Setenv("ROOT", env.RootDir)
	t.Setenv("TARGET", "x86_64")

	writeFile(t, filepath.Join(env.PackageDir, "PACKAGES"), manifest)
	writeFile(t, filepath.Join(env.PackageDir, "package", "package.sh"), packageScript)

	return env
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContent fails if the file doesn't exist or its content differs.
func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if strings.TrimSpace(string(data)) != want {
		t.Errorf("file %s = %q, want %q", path, strings.TrimSpace(string(data)), want)
	}
}
