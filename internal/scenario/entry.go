package scenario

import (
	"fmt"
	"os"
	"syscall"
)

// EnvScenario selects the child-process side: when set, the harness binary
// runs the named scenario's trigger instead of the CLI.
const EnvScenario = "TRAPCHECK_SCENARIO"

// RunChild is the entry point of the sandboxed child. It prints a banner,
// fires the trigger, and reports the protocol violation if the trigger
// ever returns. The return value is the process exit code.
func RunChild(name string) int {
	sc, ok := ByName(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", name)
		return 3
	}

	disableCoreDumps()

	fmt.Printf("%s: triggering...\n", sc.Name)
	sc.Trigger()
	fmt.Printf("%s: returned without faulting\n", sc.Name)
	return 0
}

// The parent runs children under GOTRACEBACK=crash so the wait status
// carries the real disposition; without this every fault would also
// drop a core file next to the harness.
func disableCoreDumps() {
	lim := syscall.Rlimit{Cur: 0, Max: 0}
	_ = syscall.Setrlimit(syscall.RLIMIT_CORE, &lim)
}
