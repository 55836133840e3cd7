package singleinstance

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func newGuard(t *testing.T, alive func(int) bool) *Guard {
	t.Helper()
	g := New(filepath.Join(t.TempDir(), "app.lock"))
	g.alive = alive
	return g
}

func TestAcquireFresh(t *testing.T) {
	g := newGuard(t, func(int) bool { return false })
	ok, err := g.TryAcquire()
	if err != nil || !ok {
		t.Fatalf("TryAcquire = %v, %v", ok, err)
	}
	data, err := os.ReadFile(g.path)
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("lock file holds %q", data)
	}
}

func TestAcquireYieldsToLiveInstance(t *testing.T) {
	g := newGuard(t, func(pid int) bool { return pid == 4242 })
	if err := os.WriteFile(g.path, []byte("4242"), 0o644); err != nil {
		t.Fatalf("seed lock: %v", err)
	}
	ok, err := g.TryAcquire()
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	if ok {
		t.Fatal("acquired over a live instance")
	}
	// The live owner's lock file must stay untouched.
	data, _ := os.ReadFile(g.path)
	if string(data) != "4242" {
		t.Fatalf("lock file clobbered: %q", data)
	}
}

func TestAcquireReclaimsStale(t *testing.T) {
	g := newGuard(t, func(int) bool { return false })
	if err := os.WriteFile(g.path, []byte("4242"), 0o644); err != nil {
		t.Fatalf("seed lock: %v", err)
	}
	ok, err := g.TryAcquire()
	if err != nil || !ok {
		t.Fatalf("TryAcquire = %v, %v", ok, err)
	}
	data, _ := os.ReadFile(g.path)
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("lock file holds %q", data)
	}
}

func TestAcquireReclaimsMalformed(t *testing.T) {
	g := newGuard(t, func(int) bool {
		t.Fatal("alive probed for malformed pid")
		return false
	})
	if err := os.WriteFile(g.path, []byte("not a pid"), 0o644); err != nil {
		t.Fatalf("seed lock: %v", err)
	}
	ok, err := g.TryAcquire()
	if err != nil || !ok {
		t.Fatalf("TryAcquire = %v, %v", ok, err)
	}
}

func TestReleaseRemovesOnlyHeldLock(t *testing.T) {
	g := newGuard(t, func(int) bool { return false })

	// Release without acquire is a no-op.
	if err := os.WriteFile(g.path, []byte("4242"), 0o644); err != nil {
		t.Fatalf("seed lock: %v", err)
	}
	g.Release()
	if _, err := os.Stat(g.path); err != nil {
		t.Fatal("released a lock it never held")
	}

	if ok, err := g.TryAcquire(); err != nil || !ok {
		t.Fatalf("TryAcquire = %v, %v", ok, err)
	}
	g.Release()
	if _, err := os.Stat(g.path); !os.IsNotExist(err) {
		t.Fatal("lock file left behind after release")
	}
	g.Release() // idempotent
}
