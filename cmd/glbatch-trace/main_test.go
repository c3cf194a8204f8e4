package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tinyrange/glbatch/internal/timeslice"
)

func writeTrace(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := timeslice.Open(&buf, "draw", "swap")
	if err != nil {
		t.Fatal(err)
	}
	draw, _ := w.Kind("draw")
	swap, _ := w.Kind("swap")
	for i := 1; i <= 20; i++ {
		w.Record(swap, 16*time.Millisecond)
		w.Record(draw, time.Duration(i)*time.Millisecond)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "frames.tslf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSummarize(t *testing.T) {
	f, err := os.Open(writeTrace(t))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	phases, err := summarize(f)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(phases) != 2 || phases[0].Name != "swap" || phases[1].Name != "draw" {
		t.Fatalf("phases in wrong order: %v", phases)
	}
	draw := phases[1]
	if draw.Sum != 210*time.Millisecond {
		t.Errorf("sum = %v", draw.Sum)
	}
	if got := draw.percentile(0.5); got != 10*time.Millisecond {
		t.Errorf("p50 = %v, want 10ms", got)
	}
	if got := draw.percentile(0.95); got != 19*time.Millisecond {
		t.Errorf("p95 = %v, want 19ms", got)
	}
}

func TestRun(t *testing.T) {
	path := writeTrace(t)

	var out bytes.Buffer
	if err := run([]string{path}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 2 {
		t.Errorf("summary has %d lines:\n%s", lines, out.String())
	}

	out.Reset()
	if err := run([]string{"-raw", path}, &out); err != nil {
		t.Fatalf("run -raw: %v", err)
	}
	if !strings.HasPrefix(out.String(), "swap 16ms\ndraw 1ms\n") {
		t.Errorf("raw output starts %q", out.String()[:min(40, out.Len())])
	}

	if err := run(nil, &out); err == nil {
		t.Error("run without a file succeeded")
	}
}
