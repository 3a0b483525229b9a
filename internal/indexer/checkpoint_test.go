package indexer

import (
	"path/filepath"
	"testing"
)

func TestCheckpointSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "checkpoint.json")
	store := NewCheckpointStore(path, true)

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("missing checkpoint should load as absent: ok=%v err=%v", ok, err)
	}

	if err := store.Save(1204); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cp, ok, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok || cp.LastProcessedBlock != 1204 {
		t.Fatalf("checkpoint mismatch: ok=%v %+v", ok, cp)
	}
	if cp.UpdatedAt == "" {
		t.Fatalf("updated_at should be set")
	}

	if err := store.Save(1300); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	cp, _, _ = store.Load()
	if cp.LastProcessedBlock != 1300 {
		t.Fatalf("checkpoint should advance: %+v", cp)
	}
}

func TestCheckpointDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, false)

	if err := store.Save(42); err != nil {
		t.Fatalf("disabled save should be a no-op: %v", err)
	}
	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("disabled load should report absent: ok=%v err=%v", ok, err)
	}
}
