package dispatch

import "fmt"

// Operation selects which procedure the package script runs.
type Operation string

// Supported operations.
const (
	OperationBuild   Operation = "build"
	OperationInstall Operation = "install"
)

// ParseOperation converts a command name into an Operation.
func ParseOperation(name string) (Operation, error) {
	switch op := Operation(name); op {
	case OperationBuild, OperationInstall:
		return op, nil
	default:
		return "", fmt.Errorf("unknown operation %q", name)
	}
}

// Progressive returns the verb used in the all-packages log lines.
func (o Operation) Progressive() string {
	if o == OperationInstall {
		return "Installing"
	}
	return "Compiling"
}

// FailurePolicy decides what happens when a package script fails.
type FailurePolicy string

// Supported failure policies.
const (
	// FailureIgnore continues silently; failures are logged at debug level.
	FailureIgnore FailurePolicy = "ignore"
	// FailureWarn logs a warning and continues with the next package.
	FailureWarn FailurePolicy = "warn"
	// FailureAbort stops at the first failing package.
	FailureAbort FailurePolicy = "abort"
)

// FailurePolicies lists the accepted policy names.
var FailurePolicies = []FailurePolicy{FailureIgnore, FailureWarn, FailureAbort}

// ParseFailurePolicy validates a policy name.
func ParseFailurePolicy(name string) (FailurePolicy, error) {
	for _, p := range FailurePolicies {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown failure policy %q: expected one of %v", name, FailurePolicies)
}
