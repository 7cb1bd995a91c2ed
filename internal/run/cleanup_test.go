package run

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"devstation/internal/logger"
)

func TestCleanupReleasesOnce(t *testing.T) {
	rec := logger.NewRecorder(&bytes.Buffer{}, false)
	cl := NewCleanup(rec)

	count := 0
	cl.Register("mounted image", func() error {
		count++
		return nil
	})

	cl.Run("fatal step")
	cl.Run("interrupt arrived late")
	if count != 1 {
		t.Fatalf("release ran %d times, want 1", count)
	}
}

func TestReleaseHandleAndCleanupShareOnce(t *testing.T) {
	rec := logger.NewRecorder(&bytes.Buffer{}, false)
	cl := NewCleanup(rec)

	count := 0
	rel := cl.Register("mounted image", func() error {
		count++
		return nil
	})

	// Normal path releases first; the failure path must then be a no-op.
	rel.Release()
	cl.Run("interrupted")
	if count != 1 {
		t.Fatalf("release ran %d times, want 1", count)
	}
}

func TestCleanupReverseOrder(t *testing.T) {
	rec := logger.NewRecorder(&bytes.Buffer{}, false)
	cl := NewCleanup(rec)

	var order []string
	cl.Register("first", func() error { order = append(order, "first"); return nil })
	cl.Register("second", func() error { order = append(order, "second"); return nil })

	cl.Run("abort")
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("releases ran in order %v, want [second first]", order)
	}
}

func TestCleanupRemovesScratch(t *testing.T) {
	rec := logger.NewRecorder(&bytes.Buffer{}, false)
	cl := NewCleanup(rec)

	scratch := t.TempDir()
	if err := os.WriteFile(filepath.Join(scratch, "download.part"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cl.SetScratch(scratch)

	cl.Run("abort")
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Fatalf("scratch directory still present after cleanup: %v", err)
	}
}

func TestFinishRemovesScratchQuietly(t *testing.T) {
	var buf bytes.Buffer
	rec := logger.NewRecorder(&buf, false)
	cl := NewCleanup(rec)

	scratch := t.TempDir()
	cl.SetScratch(scratch)
	cl.Finish()

	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Fatalf("scratch directory still present after finish: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("successful finish wrote log entries: %s", buf.String())
	}
}
