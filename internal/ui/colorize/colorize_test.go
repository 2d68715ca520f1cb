package colorize

import (
	"os"
	"testing"
)

func TestIsDisabledHonorsEnv(t *testing.T) {
	os.Unsetenv("GXEMUL_NO_COLOR")
	os.Unsetenv("NO_COLOR")
	if IsDisabled() {
		t.Fatalf("expected colors enabled with no env set")
	}

	os.Setenv("GXEMUL_NO_COLOR", "1")
	defer os.Unsetenv("GXEMUL_NO_COLOR")
	if !IsDisabled() {
		t.Fatalf("expected GXEMUL_NO_COLOR to disable colors")
	}
}

func TestFormattersPassThroughWhenDisabled(t *testing.T) {
	os.Setenv("GXEMUL_NO_COLOR", "1")
	defer os.Unsetenv("GXEMUL_NO_COLOR")

	if got := Address(0x1000); got != "00001000" {
		t.Fatalf("Address = %q", got)
	}
	if got := Instruction("or r3, r0, 5"); got != "or r3, r0, 5" {
		t.Fatalf("Instruction = %q", got)
	}
	if got := Changed("r3=5"); got != "r3=5" {
		t.Fatalf("Changed = %q", got)
	}
}

func TestInstructionHighlightsWhenEnabled(t *testing.T) {
	os.Unsetenv("GXEMUL_NO_COLOR")
	os.Unsetenv("NO_COLOR")

	got := Instruction("or r3, r0, 5")
	if got == "" {
		t.Fatalf("expected non-empty highlighted instruction")
	}
}
