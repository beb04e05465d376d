package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
		"bogus":   log.InfoLevel,
		" DEBUG ": log.DebugLevel,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestAdapterWritesKeyvals(t *testing.T) {
	var buf bytes.Buffer
	adapter := Adapt(New(&buf, "debug", "text"))

	adapter.Info("ticket approved", "ticket_id", "t1")
	adapter.Debug("detail", "store_id", "s1")

	out := buf.String()
	if !strings.Contains(out, "ticket approved") || !strings.Contains(out, "t1") {
		t.Fatalf("missing info record in %q", out)
	}
	if !strings.Contains(out, "detail") {
		t.Fatalf("debug level suppressed unexpectedly: %q", out)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	adapter := Adapt(New(&buf, "warn", "text"))

	adapter.Debug("hidden")
	adapter.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	adapter := Adapt(New(&buf, "info", "json"))
	adapter.Info("started", "addr", ":9464")
	if !strings.Contains(buf.String(), `"msg":"started"`) {
		t.Fatalf("expected json output, got %q", buf.String())
	}
}
