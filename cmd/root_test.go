/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootRejectsUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"frobnicate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("an unknown subcommand must fail, not silently exit 0")
	}
	if !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("error %q should name the unknown command", err)
	}
}
