package platform

import "testing"

func TestMachine_NotEmpty(t *testing.T) {
	if got := Machine(); got == "" {
		t.Fatal("Machine() returned an empty string")
	}
}

func TestMachineForArch(t *testing.T) {
	tests := []struct {
		goarch string
		want   string
	}{
		{"amd64", "x86_64"},
		{"arm64", "aarch64"},
		{"386", "i686"},
		{"mips", "mips"},
	}

	for _, tt := range tests {
		t.Run(tt.goarch, func(t *testing.T) {
			if got := MachineForArch(tt.goarch); got != tt.want {
				t.Errorf("MachineForArch(%q) = %q, want %q", tt.goarch, got, tt.want)
			}
		})
	}
}
