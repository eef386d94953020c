// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies environment variable, output format, and YAML rendering

package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func resetOutputFlags(t *testing.T) {
	t.Helper()
	jsonOutput = false
	outputFormat = formatText
	t.Cleanup(func() {
		jsonOutput = false
		outputFormat = formatText
	})
}

func TestGetAPIURL_Default(t *testing.T) {
	t.Setenv("VM_SIZER_API_URL", "")
	apiURL = "" // Reset flag

	url := GetAPIURL()
	if url != "http://localhost:8080" {
		t.Errorf("expected default URL http://localhost:8080, got %s", url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	t.Setenv("VM_SIZER_API_URL", "http://backend.example.com")
	apiURL = "" // Reset flag

	url := GetAPIURL()
	if url != "http://backend.example.com" {
		t.Errorf("expected http://backend.example.com, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	t.Setenv("VM_SIZER_API_URL", "http://backend.example.com")
	apiURL = "http://flag-override.example.com"
	defer func() { apiURL = "" }()

	url := GetAPIURL()
	if url != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestJSONOutput(t *testing.T) {
	resetOutputFlags(t)
	jsonOutput = true

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestOutputFormat_JSONFlagWins(t *testing.T) {
	resetOutputFlags(t)
	outputFormat = formatYAML
	jsonOutput = true

	if got := OutputFormat(); got != formatJSON {
		t.Errorf("expected --json to win, got %s", got)
	}
}

func TestWriteOutput_YAMLKeepsJSONFieldNames(t *testing.T) {
	resetOutputFlags(t)
	outputFormat = formatYAML

	v := struct {
		NodeCount int    `json:"node_count"`
		Version   string `json:"version"`
	}{27, "2024.1"}

	var buf bytes.Buffer
	if err := writeOutput(&buf, v, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "node_count: 27") {
		t.Errorf("expected block-style YAML with JSON names, got:\n%s", out)
	}
	if !strings.Contains(out, `version: "2024.1"`) {
		t.Errorf("expected numeric-looking string to stay quoted, got:\n%s", out)
	}
	if strings.Contains(out, "{") {
		t.Errorf("expected no flow-style mappings, got:\n%s", out)
	}
}

func TestWriteOutput_Text(t *testing.T) {
	resetOutputFlags(t)

	var buf bytes.Buffer
	if err := writeOutput(&buf, nil, func() string { return "human" }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "human\n" {
		t.Errorf("expected human text, got %q", buf.String())
	}
}

func TestRootCommand_RejectsUnknownOutput(t *testing.T) {
	resetOutputFlags(t)
	outputFormat = "xml"

	if err := rootCmd.PersistentPreRunE(rootCmd, nil); err == nil {
		t.Error("expected error for --output xml")
	}
}
