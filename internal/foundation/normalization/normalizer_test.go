package normalization

import (
	"strings"
	"testing"
)

type level string

const (
	levelDebug level = "debug"
	levelInfo  level = "info"
	levelWarn  level = "warn"
)

func TestNormalizer_Basic(t *testing.T) {
	normalizer := NewNormalizer(map[string]level{
		"debug": levelDebug,
		"info":  levelInfo,
		"warn":  levelWarn,
	}, levelInfo)

	tests := []struct {
		name     string
		input    string
		expected level
	}{
		{"exact match", "debug", levelDebug},
		{"case insensitive", "DEBUG", levelDebug},
		{"with spaces", "  warn  ", levelWarn},
		{"invalid input", "verbose", levelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizer.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	normalizer := NewNormalizer(map[string]level{"debug": levelDebug, "info": levelInfo}, levelInfo)

	if _, err := normalizer.NormalizeWithError("Debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := normalizer.NormalizeWithError("trace")
	if err == nil {
		t.Fatal("expected error for unknown value")
	}
	if !strings.Contains(err.Error(), "[debug info]") {
		t.Errorf("error should list valid keys, got %v", err)
	}
}

func TestWithCustomNormalizer_NoTrim(t *testing.T) {
	normalizer := WithCustomNormalizer(map[string]string{"iOS": "ios", "Web": "web-deploy"}, "", Lower)

	if v, ok := normalizer.Lookup("IOS"); !ok || v != "ios" {
		t.Errorf("Lookup(IOS) = %q, %v", v, ok)
	}
	if _, ok := normalizer.Lookup(" ios "); ok {
		t.Error("Lower must not accept surrounding whitespace")
	}
	if got := normalizer.Key("WeB"); got != "web" {
		t.Errorf("Key(WeB) = %q", got)
	}
}

func TestValidKeys(t *testing.T) {
	normalizer := NewNormalizer(map[string]level{"WARN": levelWarn, "debug": levelDebug}, levelInfo)
	keys := normalizer.ValidKeys()
	if len(keys) != 2 || keys[0] != "debug" || keys[1] != "warn" {
		t.Errorf("ValidKeys() = %v", keys)
	}
	keys[0] = "mutated"
	if normalizer.ValidKeys()[0] != "debug" {
		t.Error("ValidKeys must return a copy")
	}
}
