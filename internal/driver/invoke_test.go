package driver

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestRingBufferKeepsLastNLines(t *testing.T) {
	ring := newRingBuffer(3)
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		ring.push(line)
	}

	got := ring.lines()
	want := []string{"c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRingBufferUnderCapacity(t *testing.T) {
	ring := newRingBuffer(5)
	ring.push("only")
	if got := ring.lines(); len(got) != 1 || got[0] != "only" {
		t.Fatalf("unexpected lines: %v", got)
	}
}

func TestBuildFailedErrorAndDiagnostics(t *testing.T) {
	err := buildFailed(2, []string{"undefined reference to `foo'"})

	failed, ok := err.(BuildFailed)
	if !ok {
		t.Fatalf("expected a BuildFailed, got %T", err)
	}
	if failed.ExitCode != 2 {
		t.Fatalf("expected exit code 2, got %d", failed.ExitCode)
	}
	if !strings.Contains(failed.Error(), "2") {
		t.Fatalf("expected the error message to mention the exit code, got %q", failed.Error())
	}

	diags := failed.Diagnostics()
	if !diags.HasErrors() {
		t.Fatal("expected the diagnostics to report an error")
	}
}

func TestInvokeRequiresExecutable(t *testing.T) {
	err := Invoke(context.Background(), Options{Dir: "/tmp"})
	if err == nil {
		t.Fatal("expected an error when Executable is unset")
	}
}

func TestInvokeSurfacesNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	err := Invoke(context.Background(), Options{Executable: "false", Dir: "/tmp", Jobs: 1})
	if err == nil {
		t.Fatal("expected false -C /tmp -j 1 to fail (false always exits 1)")
	}
}
