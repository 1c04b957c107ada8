package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/eternalmods/eternalpatcher/internal/catalog"
	"github.com/eternalmods/eternalpatcher/internal/patch"
)

func TestPrinter_Outcomes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	fix := patch.NewOffset("Fix1", 0x10, []byte{0xAA})
	intro := patch.NewPattern("Skip intro", []byte{1, 2}, []byte{3, 4})
	broken := patch.NewOffset("Broken", 0, []byte{1})

	all := p.Outcomes([]patch.Outcome{
		{Patch: fix, Success: true},
		{Patch: intro, Success: false},
		{Patch: broken, Success: false, Err: errors.New("disk full")},
	})
	if all {
		t.Error("Outcomes() = true, want false when a patch failed")
	}

	want := "Fix1 : Success\n" +
		"Skip intro : Failure\n" +
		"Broken : Failure (disk full)\n" +
		"\n1 out of 3 applied.\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestPrinter_OutcomesAllSucceeded(t *testing.T) {
	var buf bytes.Buffer
	all := NewPrinter(&buf, true).Outcomes([]patch.Outcome{
		{Patch: patch.NewOffset("Fix1", 0x10, []byte{0xAA}), Success: true},
	})
	if !all {
		t.Error("Outcomes() = false, want true")
	}
	if !strings.Contains(buf.String(), "1 out of 1 applied.") {
		t.Errorf("output missing summary: %q", buf.String())
	}
}

func TestPrinter_Build(t *testing.T) {
	var buf bytes.Buffer
	b := &catalog.Build{
		ID:                 "1.0",
		ExecutableFileName: "game.exe",
		Checksum:           "aa",
		Patches: []*patch.Patch{
			patch.NewOffset("Fix1", 0x1F3A, []byte{0x90, 0x90}),
			patch.NewPattern("Skip intro", []byte{0xDE, 0xAD}, []byte{0, 0}),
		},
	}
	NewPrinter(&buf, false).Build(b)

	for _, want := range []string{"1.0 game.exe aa", "Fix1 [offset 0x1F3A, 2 bytes]", "Skip intro [pattern DEAD, 2 bytes]"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	NewPrinter(&buf, false).Build(&catalog.Build{ID: "2.0", ExecutableFileName: "game.exe", Checksum: "bb"})
	if !strings.Contains(buf.String(), "(no patches)") {
		t.Errorf("output missing empty marker:\n%s", buf.String())
	}
}
