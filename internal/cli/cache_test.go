package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	dir := testEnv(t)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got := strings.TrimSpace(out); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}

	t.Setenv("NETARC_REDIS_ADDR", "localhost:6390")
	out, err = execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got := strings.TrimSpace(out); got != "redis://localhost:6390" {
		t.Errorf("cache path = %q, want redis://localhost:6390", got)
	}
}

func TestCacheClear(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, "net.yaml", testDiagram)

	if _, err := execute(t, "route", input); err != nil {
		t.Fatalf("route error: %v", err)
	}
	if n := countFiles(t, dir); n == 0 {
		t.Fatal("route left the cache empty")
	}

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cleared file cache") {
		t.Errorf("output = %q, want cleared message", out)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("cache holds %d files after clear, want 0", n)
	}

	out, err = execute(t, "route", input)
	if err != nil {
		t.Fatalf("route error: %v", err)
	}
	if !strings.Contains(out, "fresh") {
		t.Errorf("route after clear = %q, want fresh", out)
	}
}

func TestCacheClear_Disabled(t *testing.T) {
	testEnv(t)
	t.Setenv("NETARC_CACHE", "none")

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("output = %q, want disabled warning", out)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return n
}
