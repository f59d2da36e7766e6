//go:build !amd64

package scenario

import "syscall"

// Fallbacks for architectures without the assembly triggers. Plain Go cannot
// express these faults without the runtime intercepting them first (and on
// arm64 UDIV does not even trap), so the trigger raises the representative
// signal directly. The kernel-side disposition path is still the one under
// test; only the instruction that enters it differs.

func invalidOpcode() {
	raise(syscall.SIGILL)
}

func divideByZero() {
	raise(syscall.SIGFPE)
}

func smashReturnAddress() {
	raise(syscall.SIGSEGV)
}
