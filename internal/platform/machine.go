package platform

import "runtime"

// goarchMachines maps GOARCH values to the names uname(2) reports for them.
var goarchMachines = map[string]string{
	"amd64":   "x86_64",
	"386":     "i686",
	"arm64":   "aarch64",
	"arm":     "armv7l",
	"ppc64le": "ppc64le",
	"ppc64":   "ppc64",
	"riscv64": "riscv64",
	"s390x":   "s390x",
	"loong64": "loongarch64",
}

func fallbackMachine() string {
	return MachineForArch(runtime.GOARCH)
}

// MachineForArch converts a GOARCH value to its uname machine name. Unknown
// architectures are returned unchanged.
func MachineForArch(goarch string) string {
	if m, ok := goarchMachines[goarch]; ok {
		return m
	}
	return goarch
}
