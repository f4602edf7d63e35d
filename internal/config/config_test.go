package config

import (
	"strings"
	"testing"
)

// TestDefaultModel verifies gpt-4o is the default manager model
func TestDefaultModel(t *testing.T) {
	cfg := DefaultConfig()
	expected := "gpt-4o"

	if cfg.Model != expected {
		t.Errorf("Default model = %q, want %q", cfg.Model, expected)
	}
}

func TestDefaultProvider(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "openai" {
		t.Errorf("Default provider = %q, want openai", cfg.Provider)
	}
}

func TestDefaultLedgerPathIsColocatedWithConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	cfg := DefaultConfig()
	want := "/tmp/xdg-test/icebreaker/my_interests.md"
	if cfg.Ledger.Path != want {
		t.Errorf("Ledger path = %q, want %q", cfg.Ledger.Path, want)
	}
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "bedrock"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "invalid") {
		t.Errorf("expected invalid provider error, got %v", err)
	}
}

func TestValidate_BackfillsOllamaBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "ollama"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:11434" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestValidate_BackfillsOutOfRangeNumbers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Limit = 0
	cfg.Search.TimeoutSeconds = -1
	cfg.Crew.MaxConcurrent = 0
	cfg.Crew.MaxRetries = 0
	cfg.Crew.MaxIterations = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Search.Limit != 5 || cfg.Search.TimeoutSeconds != 30 {
		t.Errorf("search backfill: %+v", cfg.Search)
	}
	if cfg.Crew.MaxConcurrent != 2 || cfg.Crew.MaxRetries != 2 || cfg.Crew.MaxIterations != 8 {
		t.Errorf("crew backfill: %+v", cfg.Crew)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("ICEBREAKER_TEST_KEY", "sk-123")

	got := expandEnv("$ICEBREAKER_TEST_KEY")
	if got != "sk-123" {
		t.Errorf("expandEnv = %q", got)
	}

	// Unset variables are left as-is
	got = expandEnv("$ICEBREAKER_UNSET_VAR_XYZ")
	if got != "$ICEBREAKER_UNSET_VAR_XYZ" {
		t.Errorf("expandEnv unset = %q", got)
	}
}
