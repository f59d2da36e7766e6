package scenario

import (
	"syscall"
	"time"
	"unsafe"
)

// sink defeats dead-store elimination in the memory triggers.
var sink uint64

// load is the faulting read. It must stay out of line so the compiler
// cannot prove the pointer nil and lower the dereference to a runtime
// call instead of a hardware fault.
//
//go:noinline
func load(p *uint64) uint64 {
	return *p
}

func nullDereference() {
	var p *uint64
	sink = load(p)
}

func wildPointer() {
	sink = load((*uint64)(unsafe.Pointer(uintptr(0xDEADBEEF))))
}

func breakpointTrap() {
	raise(syscall.SIGTRAP)
}

func spinForever() {
	for {
		time.Sleep(100 * time.Millisecond)
	}
}

// raise delivers a signal to the triggering process itself and then parks,
// so the trigger never returns even if delivery is deferred a tick.
func raise(sig syscall.Signal) {
	_ = syscall.Kill(syscall.Getpid(), sig)
	for {
		time.Sleep(time.Second)
	}
}
