package main

import (
	"strings"
	"testing"
)

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "todo" {
		t.Fatalf("expected root command name todo, got %q", rootCmd.Use)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	for _, name := range []string{"list", "add", "toggle", "delete", "edit", "tui", "web", "serve"} {
		found, _, err := rootCmd.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Errorf("expected subcommand %s, got %v (%v)", name, found, err)
		}
	}
}

func TestVersionString(t *testing.T) {
	if !strings.HasPrefix(versionString(), "todo ") {
		t.Fatalf("unexpected version string %q", versionString())
	}
}
