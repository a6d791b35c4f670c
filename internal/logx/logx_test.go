package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevelDefaultsToInfo(t *testing.T) {
	for _, s := range []string{"", "bogus", "INFO"} {
		if got := ParseLevel(s); got != LevelInfo {
			t.Fatalf("ParseLevel(%q) = %v, want LevelInfo", s, got)
		}
	}
}

func TestParseLevelRecognizesAllFive(t *testing.T) {
	cases := map[string]Level{
		"error": LevelError,
		"warn":  LevelWarn,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"trace": LevelTrace,
	}
	for s, want := range cases {
		if got := ParseLevel(s); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestLoggerGatesByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn)

	log.Debugf("should not appear")
	log.Tracef("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below the minimum level, got %q", buf.String())
	}

	log.Warnf("disk at %d%%", 90)
	if !strings.Contains(buf.String(), "disk at 90%") {
		t.Fatalf("expected the warn message, got %q", buf.String())
	}
}

func TestFromEnvRaisesLevelWhenVerbose(t *testing.T) {
	t.Setenv("YAMBS_LOG_LEVEL", "error")

	quiet := FromEnv(false)
	if quiet.min != LevelError {
		t.Fatalf("expected LevelError without --verbose, got %v", quiet.min)
	}

	verbose := FromEnv(true)
	if verbose.min != LevelDebug {
		t.Fatalf("expected --verbose to raise the floor to LevelDebug, got %v", verbose.min)
	}
}
