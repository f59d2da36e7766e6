package fault

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Kind is the semantic class of an abnormal process termination.
// The set is closed; the classifier maps everything it cannot place
// onto Unknown instead of failing.
type Kind string

const (
	StackCorruption     Kind = "stack_corruption"
	IllegalInstruction  Kind = "illegal_instruction"
	InvalidMemoryAccess Kind = "invalid_memory_access"
	NullDereference     Kind = "null_dereference"
	KernelPanicTrap     Kind = "kernel_panic_trap"
	ArithmeticFault     Kind = "arithmetic_fault"
	Unknown             Kind = "unknown"
)

// Kinds returns every member of the closed set, Unknown included.
func Kinds() []Kind {
	return []Kind{
		StackCorruption,
		IllegalInstruction,
		InvalidMemoryAccess,
		NullDereference,
		KernelPanicTrap,
		ArithmeticFault,
		Unknown,
	}
}

// ParseKind maps a string (behaviour files, CLI input) onto a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return Unknown, fmt.Errorf("unknown fault kind %q", s)
}

// KindSet builds the acceptable-kind set a scenario declares. Scenarios are
// registered once and never mutated, so a thread-unsafe set suffices.
func KindSet(kinds ...Kind) mapset.Set[Kind] {
	return mapset.NewThreadUnsafeSet(kinds...)
}
