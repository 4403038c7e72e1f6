package logger

import (
	"testing"
)

func TestParseAndSetLogLevels(t *testing.T) {
	first := RegisterSubSystem("TST1")
	second := RegisterSubSystem("TST2")

	err := ParseAndSetLogLevels("debug")
	if err != nil {
		t.Fatalf("ParseAndSetLogLevels: %s", err)
	}
	if first.Level() != LevelDebug || second.Level() != LevelDebug {
		t.Fatalf("expected both loggers at debug, got %s and %s", first.Level(), second.Level())
	}

	err = ParseAndSetLogLevels("TST1=warn,TST2=trace")
	if err != nil {
		t.Fatalf("ParseAndSetLogLevels: %s", err)
	}
	if first.Level() != LevelWarn {
		t.Fatalf("expected TST1 at warn, got %s", first.Level())
	}
	if second.Level() != LevelTrace {
		t.Fatalf("expected TST2 at trace, got %s", second.Level())
	}

	tests := []string{
		"loud",
		"TST1=loud",
		"NOPE=debug",
		"TST1=debug,TST2",
	}
	for _, test := range tests {
		err := ParseAndSetLogLevels(test)
		if err == nil {
			t.Errorf("ParseAndSetLogLevels(%q): expected an error", test)
		}
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in       string
		expected Level
		ok       bool
	}{
		{"trace", LevelTrace, true},
		{"DBG", LevelDebug, true},
		{"Info", LevelInfo, true},
		{"wrn", LevelWarn, true},
		{"error", LevelError, true},
		{"crt", LevelCritical, true},
		{"off", LevelOff, true},
		{"verbose", LevelInfo, false},
	}
	for _, test := range tests {
		level, ok := LevelFromString(test.in)
		if level != test.expected || ok != test.ok {
			t.Errorf("LevelFromString(%q): expected (%s, %t), got (%s, %t)",
				test.in, test.expected, test.ok, level, ok)
		}
	}
}
