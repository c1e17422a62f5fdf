package interpreter

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

const packageScript = `build_package() {
	echo "built $PACKAGE for $TARGET with $GREETING"
}

install_package() {
	echo "installing $PACKAGE into $ROOT"
	return 3
}
`

// setupScriptDir writes package/package.sh into a temp dir and returns the dir.
func setupScriptDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "package"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package", "package.sh"), []byte(packageScript), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestScript_Format(t *testing.T) {
	req := &Request{Package: "foo", Operation: "build", Directives: []string{"echo hi"}}

	got := Script(req, "package/package.sh")
	want := ". package/package.sh\nPACKAGE=\"foo\"\necho hi\nbuild_package\n"
	if got != want {
		t.Errorf("Script() = %q, want %q", got, want)
	}
}

func TestScript_NoDirectives(t *testing.T) {
	req := &Request{Package: "bar", Operation: "install"}

	got := Script(req, "lib/pkg.sh")
	want := ". lib/pkg.sh\nPACKAGE=\"bar\"\ninstall_package\n"
	if got != want {
		t.Errorf("Script() = %q, want %q", got, want)
	}
}

func TestDispatch(t *testing.T) {
	if _, ok := Dispatch("shell", Options{}).(*ShellInterpreter); !ok {
		t.Error("Dispatch(\"shell\") did not return *ShellInterpreter")
	}
	if _, ok := Dispatch("", Options{}).(*ShellInterpreter); !ok {
		t.Error("Dispatch(\"\") did not return *ShellInterpreter")
	}
	if _, ok := Dispatch("virtual", Options{}).(*VirtualInterpreter); !ok {
		t.Error("Dispatch(\"virtual\") did not return *VirtualInterpreter")
	}

	rt := Dispatch("python", Options{})
	if _, ok := rt.(*unknownInterpreter); !ok {
		t.Fatalf("Dispatch(\"python\") returned %T, want *unknownInterpreter", rt)
	}
	if _, err := rt.Run(context.Background(), &Request{}); err == nil {
		t.Error("expected error from unknown interpreter, got nil")
	}
}

func TestNewShell_DefaultShell(t *testing.T) {
	if s := NewShell(Options{}); s.opts.Shell != DefaultShell {
		t.Errorf("Shell = %q, want %q", s.opts.Shell, DefaultShell)
	}
}

// interpreters returns every implementation configured against dir.
func interpreters(t *testing.T, dir string, stdout *bytes.Buffer) map[string]Interpreter {
	t.Helper()
	opts := Options{
		ScriptPath: "package/package.sh",
		Env:        []string{"TARGET=testarch", "ROOT=/tmp/root"},
		Dir:        dir,
		Stdout:     stdout,
		Stderr:     stdout,
	}

	result := map[string]Interpreter{InterpreterVirtual: NewVirtual(opts)}
	if _, err := exec.LookPath(DefaultShell); err == nil {
		result[InterpreterShell] = NewShell(opts)
	}
	return result
}

func TestInterpreters_RunBuild(t *testing.T) {
	dir := setupScriptDir(t)

	var stdout bytes.Buffer
	for name, in := range interpreters(t, dir, &stdout) {
		t.Run(name, func(t *testing.T) {
			stdout.Reset()
			req := &Request{Package: "foo", Operation: "build", Directives: []string{"GREETING=hello"}}

			result, err := in.Run(context.Background(), req)
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if result.Failed() {
				t.Errorf("ExitCode = %d, want 0", result.ExitCode)
			}
			if got, want := stdout.String(), "built foo for testarch with hello\n"; got != want {
				t.Errorf("stdout = %q, want %q", got, want)
			}
		})
	}
}

func TestInterpreters_ExitCode(t *testing.T) {
	dir := setupScriptDir(t)

	var stdout bytes.Buffer
	for name, in := range interpreters(t, dir, &stdout) {
		t.Run(name, func(t *testing.T) {
			stdout.Reset()
			req := &Request{Package: "foo", Operation: "install"}

			result, err := in.Run(context.Background(), req)
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if result.ExitCode != 3 {
				t.Errorf("ExitCode = %d, want 3", result.ExitCode)
			}
			if got, want := stdout.String(), "installing foo into /tmp/root\n"; got != want {
				t.Errorf("stdout = %q, want %q", got, want)
			}
		})
	}
}

func TestInterpreters_MissingScript(t *testing.T) {
	dir := t.TempDir()

	var stdout bytes.Buffer
	for name, in := range interpreters(t, dir, &stdout) {
		t.Run(name, func(t *testing.T) {
			result, err := in.Run(context.Background(), &Request{Package: "foo", Operation: "build"})
			if err != nil {
				return // not being able to source counts as a failure either way
			}
			if !result.Failed() {
				t.Error("expected failure when package.sh is missing")
			}
		})
	}
}

func TestShell_MissingShell(t *testing.T) {
	s := NewShell(Options{Shell: filepath.Join(t.TempDir(), "no-such-sh")})
	if _, err := s.Run(context.Background(), &Request{Package: "foo", Operation: "build"}); err == nil {
		t.Fatal("expected error for missing shell, got nil")
	}
}

func TestVirtual_ParseError(t *testing.T) {
	v := NewVirtual(Options{ScriptPath: "package/package.sh"})
	req := &Request{Package: "broken", Operation: "build", Directives: []string{"if then fi ("}}
	if _, err := v.Run(context.Background(), req); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestCheckSyntax(t *testing.T) {
	ok := &Request{Package: "foo", Operation: "build", Directives: []string{"for f in a b; do", "  echo $f", "done"}}
	if err := CheckSyntax(ok, "package/package.sh"); err != nil {
		t.Errorf("CheckSyntax(valid) error: %v", err)
	}

	bad := &Request{Package: "foo", Operation: "build", Directives: []string{"echo \"unterminated"}}
	if err := CheckSyntax(bad, "package/package.sh"); err == nil {
		t.Error("CheckSyntax(invalid) returned nil")
	}
}

func TestDryRun(t *testing.T) {
	var out bytes.Buffer
	d := &DryRun{Out: &out, ScriptPath: "package/package.sh"}

	result, err := d.Run(context.Background(), &Request{Package: "bar", Operation: "build", Directives: []string{"echo bye"}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Failed() {
		t.Errorf("dry run reported failure")
	}
	if got, want := out.String(), ". package/package.sh\nPACKAGE=\"bar\"\necho bye\nbuild_package\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
