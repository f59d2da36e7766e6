package harness

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func systemInfo() string {
	info := fmt.Sprintf("%s/%s cpus=%d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	if ver, err := os.ReadFile("/proc/version"); err == nil {
		info += "\n" + strings.TrimSpace(string(ver))
	}
	return info
}
