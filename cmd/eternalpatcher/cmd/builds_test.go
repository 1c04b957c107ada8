package cmd

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildsCommand(t *testing.T) {
	_, defs, content := fixture(t, "patch=Fix1:offset:grp1:1F3A:9090\n")

	out, err := run(t, "builds", "--definitions", defs)
	if err != nil {
		t.Fatalf("builds: %v", err)
	}
	for _, want := range []string{"1.0 game.exe " + md5Hex(content), "Fix1 [offset 0x1F3A, 2 bytes]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
}

func TestBuildsCommand_NoDefinitions(t *testing.T) {
	out, err := run(t, "builds", "--definitions", filepath.Join(t.TempDir(), "missing.def"))
	if err != nil {
		t.Fatalf("builds: %v", err)
	}
	if !strings.Contains(out, "No builds loaded") {
		t.Errorf("output = %q, want 'No builds loaded'", out)
	}
}
