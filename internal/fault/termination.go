package fault

import "syscall"

// Termination is the raw observation of one abnormal child exit. It is
// produced exactly once per executor run, handed to the classifier,
// and discarded.
type Termination struct {
	// RawCode is the child's exit code, or -1 when it died by signal.
	RawCode int

	// Signal is the fault signal, from the runtime's fatal banner when
	// one was printed, otherwise from the wait status. Zero when the
	// child exited without either.
	Signal syscall.Signal

	// FaultAddr is the faulting address when the banner carried one.
	FaultAddr *uint64

	// TrapNo is the x86 trap vector derived from Signal.
	TrapNo *int
}

// x86 trap vectors, as numbered by the hardware and mirrored by
// teaching kernels' trap tables.
const (
	VecDivideError = 0
	VecBreakpoint  = 3
	VecInvalidOp   = 6
	VecGeneralProt = 13
	VecPageFault   = 14
)

var sigVectors = map[syscall.Signal]int{
	syscall.SIGFPE:  VecDivideError,
	syscall.SIGTRAP: VecBreakpoint,
	syscall.SIGILL:  VecInvalidOp,
	syscall.SIGSEGV: VecPageFault,
	syscall.SIGBUS:  VecPageFault,
}

// TrapVector maps a fault signal back to the trap vector that raised it.
// General protection faults are folded into the page-fault vector because
// the kernel reports both through SIGSEGV.
func TrapVector(sig syscall.Signal) (int, bool) {
	v, ok := sigVectors[sig]
	return v, ok
}
