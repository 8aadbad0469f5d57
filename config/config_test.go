package config

import (
	"os"
	"sync"
	"testing"
)

// envMu serializes the env-mutating tests below; go test runs subtests
// within a file sequentially by default but parallel runs elsewhere in the
// module could otherwise race on these same process-wide variables.
var envMu sync.Mutex

func withEnv(t *testing.T, vars map[string]string, fn func()) {
	t.Helper()
	envMu.Lock()
	defer envMu.Unlock()

	saved := make(map[string]string)
	hadVar := make(map[string]bool)
	for _, k := range []string{"GEMINI_API_KEY", "GEMINI_MODEL", "DEV_MODE", "LOG_LEVEL"} {
		v, ok := os.LookupEnv(k)
		saved[k] = v
		hadVar[k] = ok
		os.Unsetenv(k)
	}
	defer func() {
		for k, v := range saved {
			if hadVar[k] {
				os.Setenv(k, v)
			} else {
				os.Unsetenv(k)
			}
		}
	}()

	for k, v := range vars {
		os.Setenv(k, v)
	}
	fn()
}

func TestFromEnvSuccess(t *testing.T) {
	withEnv(t, map[string]string{
		"GEMINI_API_KEY": "test-key-123",
	}, func() {
		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv() error = %v, want nil", err)
		}
		if cfg.GeminiAPIKey != "test-key-123" {
			t.Errorf("GeminiAPIKey = %q, want %q", cfg.GeminiAPIKey, "test-key-123")
		}
		if cfg.GeminiModel != defaultGeminiModel {
			t.Errorf("GeminiModel = %q, want default %q", cfg.GeminiModel, defaultGeminiModel)
		}
		if !cfg.DevMode {
			t.Errorf("DevMode = false, want default true")
		}
		if cfg.LogLevel != defaultLogLevel {
			t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, defaultLogLevel)
		}
	})
}

func TestFromEnvMissingKey(t *testing.T) {
	withEnv(t, nil, func() {
		_, err := FromEnv()
		if err == nil {
			t.Fatal("FromEnv() error = nil, want error for missing GEMINI_API_KEY")
		}
	})
}

func TestFromEnvOverrides(t *testing.T) {
	withEnv(t, map[string]string{
		"GEMINI_API_KEY": "k",
		"GEMINI_MODEL":   "gemini-2.0-flash",
		"DEV_MODE":       "false",
		"LOG_LEVEL":      "debug",
	}, func() {
		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv() error = %v, want nil", err)
		}
		if cfg.GeminiModel != "gemini-2.0-flash" {
			t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel, "gemini-2.0-flash")
		}
		if cfg.DevMode {
			t.Errorf("DevMode = true, want false")
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
		}
	})
}

func TestParseBoolDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  bool
		want bool
	}{
		{"", false, false},
		{"", true, true},
		{"true", false, true},
		{"TRUE", false, true},
		{"false", true, false},
		{"1", false, true},
		{"0", true, false},
		{"yes", false, true},
		{"no", true, false},
		{"garbage", true, true},
	}
	for _, c := range cases {
		if got := parseBoolDefault(c.in, c.def); got != c.want {
			t.Errorf("parseBoolDefault(%q, %v) = %v, want %v", c.in, c.def, got, c.want)
		}
	}
}
