package tracelog

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(Info, &buf)

	l.Tracef("trace message")
	if buf.Len() != 0 {
		t.Fatalf("Trace message leaked through Info level: %q", buf.String())
	}

	l.Infof("info message")
	if !strings.Contains(buf.String(), "info message") {
		t.Fatalf("Info message missing: %q", buf.String())
	}
}

func TestFromEnvOverride(t *testing.T) {
	os.Setenv("MMIX_LOG", "trace")
	defer os.Unsetenv("MMIX_LOG")

	var buf bytes.Buffer
	l := FromEnv(Off, &buf)
	if l.Level() != Trace {
		t.Fatalf("FromEnv level = %v, want Trace", l.Level())
	}
}

func TestFromEnvFallsBackToDefault(t *testing.T) {
	os.Unsetenv("MMIX_LOG")

	l := FromEnv(Error, nil)
	if l.Level() != Error {
		t.Fatalf("FromEnv level = %v, want Error", l.Level())
	}
}

func TestNilLoggerIsSilentNotPanic(t *testing.T) {
	var l *Logger
	l.Infof("should not panic")
}
