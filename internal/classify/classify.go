// Package classify maps raw termination signals onto semantic fault kinds.
// The mapping is total and table-driven: adding a fault type means extending
// a table, not adding control flow, and unmapped input classifies as
// fault.Unknown rather than erroring.
package classify

import (
	"syscall"

	"github.com/trapcheck/trapcheck/internal/fault"
)

var trapKinds = map[int]fault.Kind{
	fault.VecDivideError: fault.ArithmeticFault,
	fault.VecBreakpoint:  fault.KernelPanicTrap,
	fault.VecInvalidOp:   fault.IllegalInstruction,
	fault.VecGeneralProt: fault.InvalidMemoryAccess,
	fault.VecPageFault:   fault.InvalidMemoryAccess,
}

var signalKinds = map[syscall.Signal]fault.Kind{
	syscall.SIGFPE:  fault.ArithmeticFault,
	syscall.SIGTRAP: fault.KernelPanicTrap,
	syscall.SIGILL:  fault.IllegalInstruction,
	syscall.SIGSEGV: fault.InvalidMemoryAccess,
	syscall.SIGBUS:  fault.InvalidMemoryAccess,
}

// A memory fault below the first page is a null dereference, possibly with
// a small field offset.
const nullPage = 0x1000

// Classify produces exactly one Kind for a termination. Trap vectors take
// priority over signals; both tables agree where they overlap.
func Classify(t fault.Termination) fault.Kind {
	kind := fault.Unknown
	if t.TrapNo != nil {
		if k, ok := trapKinds[*t.TrapNo]; ok {
			kind = k
		}
	}
	if kind == fault.Unknown && t.Signal != 0 {
		if k, ok := signalKinds[t.Signal]; ok {
			kind = k
		}
	}
	if kind == fault.InvalidMemoryAccess && t.FaultAddr != nil && *t.FaultAddr < nullPage {
		kind = fault.NullDereference
	}
	return kind
}
