// Package scenario holds the static table of fault scenarios and the
// child-process side that actually triggers them.
package scenario

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/trapcheck/trapcheck/internal/fault"
)

const DefaultTimeoutMs = 5000

// Scenario is one self-contained way to misbehave plus its expected
// disposition. Scenarios are registered once at start and never mutated.
type Scenario struct {
	Name string

	// Trigger must deterministically reach the fault and never return
	// normally. It runs only in the sandboxed child process.
	Trigger func()

	Expected fault.Kind

	// Accepts is the set of kinds counted as a pass. It always contains
	// Expected; it is wider only where the scenario declares that the
	// secondary symptom depends on what got clobbered.
	Accepts mapset.Set[fault.Kind]

	TimeoutMs int64
}

// Registry returns the ordered conformance table. The order is load-bearing:
// a later scenario is only trusted after the earlier ones verified host
// survival. Callers get a fresh slice each time.
func Registry() []Scenario {
	return []Scenario{
		{
			// 8-byte stack buffer overwritten with a fixed 24-byte
			// pattern, clobbering the saved return address. Whether
			// the damage surfaces as a bad jump or as decode of
			// garbage depends on the target, hence the wide accepts.
			Name:     "buffer-overflow",
			Trigger:  smashReturnAddress,
			Expected: fault.StackCorruption,
			Accepts: fault.KindSet(
				fault.StackCorruption,
				fault.InvalidMemoryAccess,
				fault.IllegalInstruction,
			),
			TimeoutMs: DefaultTimeoutMs,
		},
		{
			Name:      "invalid-instruction",
			Trigger:   invalidOpcode,
			Expected:  fault.IllegalInstruction,
			Accepts:   fault.KindSet(fault.IllegalInstruction),
			TimeoutMs: DefaultTimeoutMs,
		},
		{
			Name:      "invalid-pointer",
			Trigger:   wildPointer,
			Expected:  fault.InvalidMemoryAccess,
			Accepts:   fault.KindSet(fault.InvalidMemoryAccess),
			TimeoutMs: DefaultTimeoutMs,
		},
		{
			Name:      "null-dereference",
			Trigger:   nullDereference,
			Expected:  fault.NullDereference,
			Accepts:   fault.KindSet(fault.NullDereference),
			TimeoutMs: DefaultTimeoutMs,
		},
		{
			Name:      "trap-test",
			Trigger:   breakpointTrap,
			Expected:  fault.KernelPanicTrap,
			Accepts:   fault.KindSet(fault.KernelPanicTrap),
			TimeoutMs: DefaultTimeoutMs,
		},
		{
			Name:      "divide-by-zero",
			Trigger:   divideByZero,
			Expected:  fault.ArithmeticFault,
			Accepts:   fault.KindSet(fault.ArithmeticFault),
			TimeoutMs: DefaultTimeoutMs,
		},
	}
}

// Auxiliary scenarios runnable by name but excluded from the conformance
// table. The probe is the verifier's liveness check; spin exists to
// exercise the timeout path.
func aux() []Scenario {
	return []Scenario{
		{
			Name:      "probe",
			Trigger:   func() {},
			Expected:  fault.Unknown,
			Accepts:   fault.KindSet(fault.Unknown),
			TimeoutMs: 2000,
		},
		{
			Name:      "spin",
			Trigger:   spinForever,
			Expected:  fault.Unknown,
			Accepts:   fault.KindSet(fault.Unknown),
			TimeoutMs: DefaultTimeoutMs,
		},
	}
}

// Probe returns the trivial no-fault scenario used for liveness checks.
func Probe() Scenario {
	return aux()[0]
}

// Spin returns the never-terminating scenario used to exercise timeouts.
func Spin() Scenario {
	return aux()[1]
}

// ByName resolves a scenario, conformance table first, then auxiliaries.
func ByName(name string) (Scenario, bool) {
	for _, sc := range Registry() {
		if sc.Name == name {
			return sc, true
		}
	}
	for _, sc := range aux() {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}
