package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	logs, err := New(Options{Stderr: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer logs.Close()

	logs.Logger("api").Printf("hello %d", 1)

	if !strings.HasPrefix(buf.String(), "[api] ") {
		t.Errorf("output = %q, want [api] prefix", buf.String())
	}
	if !strings.Contains(buf.String(), "hello 1") {
		t.Errorf("output = %q, want message", buf.String())
	}
}

func TestLogger_File(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "weekdo.log")

	logs, err := New(Options{
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		Stderr:     &buf,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logs.Logger("watch").Println("file changed")

	if err := logs.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !strings.Contains(string(data), "[watch] ") || !strings.Contains(string(data), "file changed") {
		t.Errorf("log file = %q, want prefixed message", data)
	}
	if !strings.Contains(buf.String(), "file changed") {
		t.Errorf("stderr = %q, want message copied", buf.String())
	}
}

func TestClose_NoFile(t *testing.T) {
	logs, err := New(Options{Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := logs.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}
