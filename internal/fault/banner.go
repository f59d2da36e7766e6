package fault

import (
	"regexp"
	"strconv"
	"syscall"
)

// The Go runtime announces a fatal signal in one of two shapes, depending on
// whether the signal first surfaced as a panic or as a direct throw:
//
//	[signal SIGSEGV: segmentation violation code=0x1 addr=0xdeadbeef pc=0x45f7c7]
//
//	SIGTRAP: trace trap
//	PC=0x46bca1 m=0 sigcode=128
//
// Both carry the fault signal; only the first carries the faulting address.
var (
	panicBannerRe = regexp.MustCompile(`(?m)^\[signal (SIG[A-Z]+)[^\]]*?\baddr=0x([0-9a-fA-F]+)`)
	throwBannerRe = regexp.MustCompile(`(?m)^(SIG[A-Z]+): `)
)

var sigByName = map[string]syscall.Signal{
	"SIGSEGV": syscall.SIGSEGV,
	"SIGBUS":  syscall.SIGBUS,
	"SIGILL":  syscall.SIGILL,
	"SIGFPE":  syscall.SIGFPE,
	"SIGTRAP": syscall.SIGTRAP,
	"SIGABRT": syscall.SIGABRT,
}

// Banner is the parsed fatal-signal announcement of a child's stderr.
type Banner struct {
	Signal    syscall.Signal
	FaultAddr *uint64
}

// ParseBanner extracts the fault signal and, when present, the faulting
// address from a child's captured stderr. Returns false when the output
// contains no recognizable banner.
func ParseBanner(stderr []byte) (Banner, bool) {
	if m := panicBannerRe.FindSubmatch(stderr); m != nil {
		sig, ok := sigByName[string(m[1])]
		if !ok {
			return Banner{}, false
		}
		b := Banner{Signal: sig}
		if addr, err := strconv.ParseUint(string(m[2]), 16, 64); err == nil {
			b.FaultAddr = &addr
		}
		return b, true
	}
	if m := throwBannerRe.FindSubmatch(stderr); m != nil {
		if sig, ok := sigByName[string(m[1])]; ok {
			return Banner{Signal: sig}, true
		}
	}
	return Banner{}, false
}
