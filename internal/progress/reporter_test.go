package progress

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLineJSONRoundTrip(t *testing.T) {
	line := Line{Target: "x", Source: "main.cpp", Timestamp: "2026-08-06T00:00:00Z", Status: "ok"}

	encoded, err := json.Marshal(line)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Line
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != line {
		t.Fatalf("expected %#v, got %#v", line, decoded)
	}
}

func TestRenderNonTTYWritesOneLinePerUnit(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Total: 2, Out: &buf}

	r.render(false, 1, Line{Target: "x", Source: "main.cpp"})

	if got := buf.String(); got != "[1/2] x: main.cpp\n" {
		t.Fatalf("unexpected render output: %q", got)
	}
}

func TestRenderTTYPrintsPercentage(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Total: 4, Out: &buf}

	r.render(true, 2, Line{Target: "x", Source: "a.cpp"})

	if got := buf.String(); !bytes.Contains([]byte(got), []byte("50%")) {
		t.Fatalf("expected the bar to report 50%%, got %q", got)
	}
}

func TestRunStopsWhenSignaled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")
	if err := os.WriteFile(path, []byte(`{"target":"x","source":"a.cpp","status":"ok"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	r := New(path, 1)
	r.Out = &buf

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- r.Run(stop) }()

	time.Sleep(50 * time.Millisecond)
	close(stop)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after the stop channel was closed")
	}
}
