package stats

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func statsPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "stats.json")
}

func TestAddRecordsAndAggregates(t *testing.T) {
	store := Open(statsPath(t))
	store.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	if err := store.Add("hello world", 3.2, "base"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	snap := store.Snapshot()
	if snap.TotalWords != 2 || snap.TotalTranscription != 1 {
		t.Fatalf("totals = %d words / %d transcriptions", snap.TotalWords, snap.TotalTranscription)
	}
	if math.Abs(snap.TotalAudioSeconds-3.2) > 1e-9 {
		t.Fatalf("TotalAudioSeconds = %v", snap.TotalAudioSeconds)
	}
	if len(snap.History) != 1 {
		t.Fatalf("history length = %d", len(snap.History))
	}
	rec := snap.History[0]
	if rec.Text != "hello world" || rec.WordCount != 2 || rec.AudioSeconds != 3.2 || rec.Model != "base" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Timestamp != "2026-08-31T12:00:00Z" {
		t.Fatalf("timestamp = %q", rec.Timestamp)
	}
}

func TestEmptyTextNeverRecorded(t *testing.T) {
	store := Open(statsPath(t))
	for _, text := range []string{"", "   ", "\n\t"} {
		if err := store.Add(text, 1.0, "base"); err != nil {
			t.Fatalf("Add(%q): %v", text, err)
		}
	}
	snap := store.Snapshot()
	if snap.TotalTranscription != 0 || len(snap.History) != 0 {
		t.Fatalf("blank text recorded: %+v", snap)
	}
}

func TestHistoryCapAt100(t *testing.T) {
	store := Open(statsPath(t))

	for i := 0; i < 101; i++ {
		if err := store.Add(fmt.Sprintf("entry %d", i), 1.0, "base"); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}

	snap := store.Snapshot()
	if len(snap.History) != 100 {
		t.Fatalf("history length = %d, want 100", len(snap.History))
	}
	// Newest first; the very first entry fell off.
	if snap.History[0].Text != "entry 100" {
		t.Fatalf("newest = %q", snap.History[0].Text)
	}
	if snap.History[99].Text != "entry 1" {
		t.Fatalf("oldest kept = %q", snap.History[99].Text)
	}
	// Aggregates reflect all 101 additions regardless of truncation.
	if snap.TotalTranscription != 101 {
		t.Fatalf("TotalTranscription = %d", snap.TotalTranscription)
	}
	if snap.TotalWords != 202 {
		t.Fatalf("TotalWords = %d", snap.TotalWords)
	}
	if math.Abs(snap.TotalAudioSeconds-101.0) > 1e-9 {
		t.Fatalf("TotalAudioSeconds = %v", snap.TotalAudioSeconds)
	}
}

func TestDurationRoundedInRecordOnly(t *testing.T) {
	store := Open(statsPath(t))
	if err := store.Add("one", 2.34567, "tiny"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	snap := store.Snapshot()
	if snap.History[0].AudioSeconds != 2.3 {
		t.Fatalf("record duration = %v, want 2.3", snap.History[0].AudioSeconds)
	}
	if math.Abs(snap.TotalAudioSeconds-2.34567) > 1e-9 {
		t.Fatalf("total duration = %v, want exact value", snap.TotalAudioSeconds)
	}
}

func TestLoadMissingAndCorrupt(t *testing.T) {
	path := statsPath(t)
	if snap := Load(path); snap.TotalWords != 0 || len(snap.History) != 0 {
		t.Fatalf("missing file snapshot = %+v", snap)
	}
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if snap := Load(path); snap.TotalWords != 0 || len(snap.History) != 0 {
		t.Fatalf("corrupt file snapshot = %+v", snap)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := statsPath(t)
	store := Open(path)
	if err := store.Add("persisted entry here", 5.0, "small"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.SetModel("small"); err != nil {
		t.Fatalf("SetModel: %v", err)
	}

	reloaded := Load(path)
	if reloaded.TotalWords != 3 || reloaded.CurrentModel != "small" {
		t.Fatalf("reloaded = %+v", reloaded)
	}
	if len(reloaded.History) != 1 || reloaded.History[0].Text != "persisted entry here" {
		t.Fatalf("history = %+v", reloaded.History)
	}
}

func TestClearHistoryKeepsTotals(t *testing.T) {
	store := Open(statsPath(t))
	if err := store.Add("a b c", 1.5, "base"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.History) != 0 {
		t.Fatalf("history not cleared: %+v", snap.History)
	}
	if snap.TotalWords != 3 || snap.TotalTranscription != 1 {
		t.Fatalf("totals lost: %+v", snap)
	}
}

func TestResetKeepsModel(t *testing.T) {
	store := Open(statsPath(t))
	if err := store.SetModel("medium"); err != nil {
		t.Fatalf("SetModel: %v", err)
	}
	if err := store.Add("x y", 1.0, "medium"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	snap := store.Snapshot()
	if snap.TotalWords != 0 || len(snap.History) != 0 {
		t.Fatalf("not reset: %+v", snap)
	}
	if snap.CurrentModel != "medium" {
		t.Fatalf("model lost on reset: %q", snap.CurrentModel)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := Open(statsPath(t))
	if err := store.Add("immutable", 1.0, "base"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	snap := store.Snapshot()
	snap.History[0].Text = "mutated"
	if store.Snapshot().History[0].Text != "immutable" {
		t.Fatal("Snapshot shares history backing array")
	}
}
