package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestInitEnvOverridesLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")

	var buf bytes.Buffer
	logger := initTo(&buf, "tsave-test", "debug")
	logger.Warn().Msg("dropped")
	logger.Error().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("warn line should be filtered: %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "tsave-test") {
		t.Fatalf("expected error line with app field, got %q", out)
	}
}
