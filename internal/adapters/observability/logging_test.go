package observability_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"stayin/internal/adapters/observability"
)

func TestNewLoggerTo_LevelAndService(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLoggerTo(&buf, "warn", "stayin-api")

	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("json: %v", err)
	}
	if rec["service"] != "stayin-api" || rec["message"] != "kept" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNewLoggerTo_BadLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLoggerTo(&buf, "loud", "seed")
	l.Debug().Msg("no")
	l.Info().Msg("yes")
	if out := buf.String(); strings.Contains(out, `"no"`) || !strings.Contains(out, `"yes"`) {
		t.Fatalf("unexpected output: %q", out)
	}
}
