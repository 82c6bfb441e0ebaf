package tui

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Optional append-only debug log, gated by env so normal runs stay silent:
// STRIDE_TUI_DEBUG enables it, STRIDE_TUI_DEBUG_LOG names the file.
func (m *appModel) debugLogf(format string, args ...any) {
	if !m.debugEnabled || m.debugLogPath == "" {
		return
	}
	f, err := os.OpenFile(m.debugLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s "+format+"\n",
		append([]any{time.Now().Format("15:04:05.000")}, args...)...)
}

func debugFromEnv() (bool, string) {
	enabled := strings.TrimSpace(os.Getenv("STRIDE_TUI_DEBUG")) != ""
	return enabled, strings.TrimSpace(os.Getenv("STRIDE_TUI_DEBUG_LOG"))
}
