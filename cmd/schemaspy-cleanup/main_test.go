package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRun_UsageErrors(t *testing.T) {
	os.Clearenv()

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{
			name:    "no parameters",
			args:    []string{"schemaspy-cleanup"},
			message: "too few parameters",
		},
		{
			name:    "too few parameters",
			args:    []string{"schemaspy-cleanup", "mrk_marker.html", "dbhost", "mgd", "reader"},
			message: "too few parameters",
		},
		{
			name:    "too many parameters",
			args:    []string{"schemaspy-cleanup", "mrk_marker.html", "dbhost", "mgd", "reader", "secret", "extra"},
			message: "too many parameters",
		},
		{
			name:    "unknown flag",
			args:    []string{"schemaspy-cleanup", "-z", "mrk_marker.html", "dbhost", "mgd", "reader", "secret"},
			message: "invalid command-line",
		},
		{
			name:    "empty server",
			args:    []string{"schemaspy-cleanup", "mrk_marker.html", "", "mgd", "reader", "secret"},
			message: "server is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer

			if code := run(tt.args, &stderr); code != 1 {
				t.Errorf("Expected exit status 1, got %d", code)
			}

			out := stderr.String()
			if !strings.HasPrefix(out, "Usage: schemaspy-cleanup [-a|-d|-i]") {
				t.Errorf("Expected usage text first, got:\n%s", out)
			}
			if !strings.Contains(out, "Error: ") || !strings.Contains(out, tt.message) {
				t.Errorf("Expected error line containing %q, got:\n%s", tt.message, out)
			}
		})
	}
}

func TestRun_InvalidDriver(t *testing.T) {
	os.Setenv("DB_DRIVER", "sqlite")
	defer os.Clearenv()

	var stderr bytes.Buffer
	if code := run([]string{"schemaspy-cleanup", "mrk_marker.html", "dbhost", "mgd", "reader", "secret"}, &stderr); code != 1 {
		t.Errorf("Expected exit status 1, got %d", code)
	}

	out := stderr.String()
	if strings.Contains(out, "Usage:") {
		t.Errorf("Expected no usage text for an environment problem, got:\n%s", out)
	}
	if !strings.Contains(out, "DB_DRIVER") {
		t.Errorf("Expected DB_DRIVER error, got:\n%s", out)
	}
}
