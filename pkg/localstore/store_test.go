package localstore

import (
	"path/filepath"
	"testing"
)

func TestLoadBeforeSaveReturnsNil(t *testing.T) {
	store := openTestStore(t)

	data, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil before first save, got %q", data)
	}
}

func TestSaveOverwritesWholesale(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save([]byte(`[{"barcode":"48571035"}]`)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save([]byte(`[]`)); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	data, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(data) != `[]` {
		t.Fatalf("expected last write to win, got %q", data)
	}
}

func TestReopenPreservesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklist.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := store.Save([]byte(`[{"barcode":"a"},{"barcode":"b"}]`)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	data, err := reopened.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(data) != `[{"barcode":"a"},{"barcode":"b"}]` {
		t.Fatalf("unexpected document after reopen: %q", data)
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "worklist.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
