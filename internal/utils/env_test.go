package utils

import (
	"os"
	"testing"
)

func TestSafeEnv(t *testing.T) {
	const key = "_PAIRWISE_TEST_SAFEENV"
	os.Unsetenv(key)
	if got := SafeEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	os.Setenv(key, "value")
	if got := SafeEnv(key, "fallback"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
}

func TestSafeEnvBool(t *testing.T) {
	const key = "_PAIRWISE_TEST_SAFEENVBOOL"
	os.Unsetenv(key)
	if !SafeEnvBool(key, true) {
		t.Fatalf("expected fallback true")
	}
	os.Setenv(key, "true")
	if !SafeEnvBool(key, false) {
		t.Fatalf("expected parsed true")
	}
	os.Setenv(key, "junk")
	if SafeEnvBool(key, false) {
		t.Fatalf("unparsable value should use fallback")
	}
}
