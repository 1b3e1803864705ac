// ABOUTME: Tests for the rulings CLI help display covering content, flags, and env detection.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpContainsProjectNameAndVersion(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	out := buf.String()

	if !strings.Contains(out, "rulings 1.2.3") {
		t.Error("expected help output to contain project name and version")
	}
}

func TestPrintHelpContainsUsagePatterns(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	patterns := []string{
		"rulings <card>",
		"rulings -group <uid>",
		"rulings -check",
	}
	for _, p := range patterns {
		if !strings.Contains(out, p) {
			t.Errorf("expected help to contain usage pattern %q", p)
		}
	}
}

func TestPrintHelpContainsAllFlags(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	flags := []string{"-proposal", "-name", "-description", "-api", "-config", "-version", "-help"}
	for _, f := range flags {
		if !strings.Contains(out, f) {
			t.Errorf("expected help to document flag %q", f)
		}
	}
}

func TestEnvStatus(t *testing.T) {
	t.Setenv("TEST_RULINGS_ENV", "x")
	if got := envStatus("TEST_RULINGS_ENV"); got != "[set]" {
		t.Errorf("envStatus = %q, want [set]", got)
	}
	t.Setenv("TEST_RULINGS_ENV", "")
	if got := envStatus("TEST_RULINGS_ENV"); got != "[not set]" {
		t.Errorf("envStatus = %q, want [not set]", got)
	}
}
