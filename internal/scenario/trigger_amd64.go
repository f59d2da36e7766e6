//go:build amd64

package scenario

// Implemented in trigger_amd64.s. These must be genuine hardware faults,
// not runtime panics, so the kernel-side trap path is the one exercised.

// invalidOpcode executes UD2.
func invalidOpcode()

// divideByZero executes DIV with a zero divisor.
func divideByZero()

// smashReturnAddress overwrites its own 8-byte return slot plus 16 bytes
// of caller frame with a fixed pattern, then returns through the garbage.
func smashReturnAddress()
