package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.WarnLevel},
		{"verbose", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitOnce(t *testing.T) {
	t.Cleanup(Reset)
	var first, second bytes.Buffer

	Init(Options{Level: "info", JSON: true, Output: &first})
	Init(Options{Level: "info", JSON: true, Output: &second})

	l := Get()
	l.Info().Str("k", "v").Msg("hello")

	if second.Len() != 0 {
		t.Errorf("second Init should be ignored, got output %q", second.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(first.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line %q: %v", first.String(), err)
	}
	if entry["message"] != "hello" || entry["k"] != "v" || entry["level"] != "info" {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestGetBeforeInit(t *testing.T) {
	Reset()
	l := Get()
	// must not panic, and must discard.
	l.Error().Msg("discarded")
}
