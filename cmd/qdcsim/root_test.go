// cmd/qdcsim/root_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, db string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", db}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("qdcsim %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestStatePersistsAcrossInvocations(t *testing.T) {
	db := filepath.Join(t.TempDir(), "qdc.db")

	run(t, db, "count", "250")
	run(t, db, "index", "-n", "2")
	out := run(t, db, "read")
	if !strings.Contains(out, "position=250 ") || !strings.Contains(out, "revolution=2 ") {
		t.Fatalf("read = %q", out)
	}
	// The previous read latched the holds and cleared the difference.
	out = run(t, db, "hold")
	if !strings.Contains(out, "difference=250 ") {
		t.Fatalf("hold = %q", out)
	}
	out = run(t, db, "read")
	if !strings.Contains(out, "difference=0 ") {
		t.Fatalf("second read = %q", out)
	}
}

func TestInstancesAreSeparate(t *testing.T) {
	db := filepath.Join(t.TempDir(), "qdc.db")
	run(t, db, "-i", "3", "count", "--", "-5")
	if out := run(t, db, "-i", "3", "read"); !strings.Contains(out, "position=-5 ") || !strings.Contains(out, "direction=down") {
		t.Fatalf("ENC3 read = %q", out)
	}
	if out := run(t, db, "-i", "1", "read"); !strings.Contains(out, "position=0 ") {
		t.Fatalf("ENC1 read = %q", out)
	}
	if out := run(t, db, "list"); out != "ENC1\nENC3\n" {
		t.Fatalf("list = %q", out)
	}
}

func TestFlags(t *testing.T) {
	db := filepath.Join(t.TempDir(), "qdc.db")
	run(t, db, "raise", "home", "index|compare")
	if out := run(t, db, "status"); !strings.Contains(out, "flags=home|index|compare ") {
		t.Fatalf("status = %q", out)
	}
	if out := run(t, db, "clear", "index"); out != "flags=home|compare\n" {
		t.Fatalf("clear index = %q", out)
	}
	if out := run(t, db, "clear"); out != "flags=none\n" {
		t.Fatalf("clear = %q", out)
	}

	var buf bytes.Buffer
	cmd := NewRootCommand(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--db", db, "raise", "bogus"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("unknown flag accepted")
	}
}

func TestApplyAndConfig(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "qdc.db")
	file := filepath.Join(dir, "enc.yaml")
	if err := os.WriteFile(file, []byte("filter:\n  prescaler: 200\n  sample_count: 6\n  sample_period: 9\nhome:\n  interrupt: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := run(t, db, "apply", "-f", file)
	if !strings.Contains(out, "prescaler: 128") || !strings.Contains(out, "sample_period: 9") {
		t.Fatalf("apply = %q", out)
	}
	if got := run(t, db, "config"); got != out {
		t.Fatalf("config = %q, want %q", got, out)
	}

	run(t, db, "reset")
	if out := run(t, db, "config"); strings.Contains(out, "interrupt") {
		t.Fatalf("config after reset = %q", out)
	}
}

func TestInitAndTestGen(t *testing.T) {
	db := filepath.Join(t.TempDir(), "qdc.db")
	run(t, db, "init", "0x100")
	if out := run(t, db, "test-gen", "--count", "40", "--reverse"); out != "generated -40 counts\n" {
		t.Fatalf("test-gen = %q", out)
	}
	if out := run(t, db, "read"); !strings.Contains(out, "position=216 ") {
		t.Fatalf("read = %q", out)
	}
}

func TestTraceAndDump(t *testing.T) {
	db := filepath.Join(t.TempDir(), "qdc.db")
	out := run(t, db, "--trace", "init", "7")
	if !strings.Contains(out, "W UINIT=0x0000") || !strings.Contains(out, "W LINIT=0x0007") {
		t.Fatalf("trace = %q", out)
	}
	out = run(t, db, "dump")
	if !strings.Contains(out, "0x10 LPOS   0x0007") {
		t.Fatalf("dump = %q", out)
	}
}
