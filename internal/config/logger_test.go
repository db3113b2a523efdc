package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"debug enabled", true, true},
		{"debug disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.debug)

			logger.Debug("fetching", "url", "https://h/vekt")
			logger.Info("progress", "bytes", 10)
			logger.Warn("slow mirror", "mechanism", "curl")

			out := buf.String()
			if got := strings.Contains(out, "msg=fetching"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "msg=progress"); got != tt.wantDebug {
				t.Errorf("info line present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "msg=\"slow mirror\"") || !strings.Contains(out, "mechanism=curl") {
				t.Errorf("warn line missing:\n%s", out)
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	// Must not panic.
	logger.Debug("x")
	logger.Info("x", "k", "v")
	logger.Warn("x")
	logger.Error("x", "err", nil)
}
