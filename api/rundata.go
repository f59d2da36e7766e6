package api

import "strings"

// RunData contains the captured input/output of one scenario child process.
type RunData struct {
	Stdout   string `json:"out"`
	Stderr   string `json:"err"`
	ExitCode int64  `json:"exit"`

	// ExitSignal is set when the child was terminated by a signal
	// rather than exiting on its own.
	ExitSignal *int64 `json:"signal,omitempty"`

	WallMs int64 `json:"wall_ms"`
}

const (
	MaxRunDataHeight = 40
	MaxRunDataWidth  = 80
)

// TrimRunData bounds the captured std streams so streamed messages stay small.
// The full streams live in the crash store, not on the wire.
func TrimRunData(data *RunData, maxHeight int, maxWidth int) *RunData {
	if data == nil {
		return nil
	}
	return &RunData{
		Stdout:     trimStrToRect(data.Stdout, maxHeight, maxWidth),
		Stderr:     trimStrToRect(data.Stderr, maxHeight, maxWidth),
		ExitCode:   data.ExitCode,
		ExitSignal: data.ExitSignal,
		WallMs:     data.WallMs,
	}
}

func trimStrToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "...")
	}
	for i, line := range lines {
		if len(line) > maxWidth {
			lines[i] = line[:maxWidth] + "..."
		}
	}
	return strings.Join(lines, "\n")
}
