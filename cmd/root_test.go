package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandMetadata(t *testing.T) {
	if rootCmd.Use != "cdash-mcp" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "cdash-mcp")
	}
	if rootCmd.Short == "" {
		t.Error("rootCmd.Short is empty")
	}
}

func TestVersionCommandRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Use == "version" {
			return
		}
	}
	t.Error("version command not registered on root")
}

func TestVersionOutput(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(version) unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "cdash-mcp "+Version) {
		t.Errorf("version output = %q, want to contain %q", out.String(), "cdash-mcp "+Version)
	}
}
