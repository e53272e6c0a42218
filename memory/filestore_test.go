package memory_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/chatstore/memory"
)

func TestFileStore_List_EmptyDir(t *testing.T) {
	store := memory.NewFileStore(t.TempDir())

	keys, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() returned %d keys, want 0", len(keys))
	}
}

func TestFileStore_List_MissingRoot(t *testing.T) {
	store := memory.NewFileStore(filepath.Join(t.TempDir(), "nonexistent"))

	keys, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() returned %d keys, want 0", len(keys))
	}
}

func TestFileStore_List_PopulatedDir(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "chat", "[]")
	writeTestFile(t, root, "archive/2026-10.json", "[]")
	writeTestFile(t, root, "drafts/a/b.json", "{}")

	store := memory.NewFileStore(root)
	keys, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{
		"archive/2026-10.json",
		"chat",
		"drafts/a/b.json",
	}
	if len(keys) != len(want) {
		t.Fatalf("List() returned %d keys, want %d", len(keys), len(want))
	}
	for i, key := range keys {
		if key != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, key, want[i])
		}
	}
}

func TestFileStore_List_SkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "chat", "[]")
	writeTestFile(t, root, ".tmp-123", "partial")
	writeTestFile(t, root, ".hiddendir/file.json", "nested")

	store := memory.NewFileStore(root)
	keys, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("List() returned %d keys, want 1", len(keys))
	}
	if keys[0] != "chat" {
		t.Errorf("List()[0] = %q, want %q", keys[0], "chat")
	}
}

func TestFileStore_Load(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "chat", `[{"role":"user","content":"hi"}]`)
	writeTestFile(t, root, "archive/old", "[]")

	store := memory.NewFileStore(root)

	entries, err := store.Load(context.Background(), "chat", "archive/old")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(entries))
	}

	if entries[0].Key != "chat" {
		t.Errorf("entries[0].Key = %q, want %q", entries[0].Key, "chat")
	}
	if string(entries[0].Value) != `[{"role":"user","content":"hi"}]` {
		t.Errorf("entries[0].Value = %q", string(entries[0].Value))
	}
	if entries[1].Key != "archive/old" {
		t.Errorf("entries[1].Key = %q, want %q", entries[1].Key, "archive/old")
	}
}

func TestFileStore_Load_KeyNotFound(t *testing.T) {
	store := memory.NewFileStore(t.TempDir())

	_, err := store.Load(context.Background(), "chat")
	if !errors.Is(err, memory.ErrKeyNotFound) {
		t.Errorf("Load() error = %v, want %v", err, memory.ErrKeyNotFound)
	}
}

func TestFileStore_InvalidKeys(t *testing.T) {
	store := memory.NewFileStore(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "/etc/passwd", "../escape", "a/../../escape"} {
		t.Run(key, func(t *testing.T) {
			if _, err := store.Load(ctx, key); !errors.Is(err, memory.ErrInvalidKey) {
				t.Errorf("Load(%q) error = %v, want %v", key, err, memory.ErrInvalidKey)
			}
			err := store.Save(ctx, memory.Entry{Key: key, Value: []byte("x")})
			if !errors.Is(err, memory.ErrInvalidKey) {
				t.Errorf("Save(%q) error = %v, want %v", key, err, memory.ErrInvalidKey)
			}
		})
	}
}

func TestFileStore_Save(t *testing.T) {
	root := t.TempDir()
	store := memory.NewFileStore(root)

	entries := []memory.Entry{
		{Key: "chat", Value: []byte("[]")},
		{Key: "archive/2026/10.json", Value: []byte(`[{"role":"user"}]`)},
	}

	if err := store.Save(context.Background(), entries...); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "chat"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("file content = %q, want %q", string(got), "[]")
	}

	got, err = os.ReadFile(filepath.Join(root, "archive", "2026", "10.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != `[{"role":"user"}]` {
		t.Errorf("file content = %q", string(got))
	}
}

func TestFileStore_Save_Overwrite(t *testing.T) {
	root := t.TempDir()
	store := memory.NewFileStore(root)

	if err := store.Save(context.Background(), memory.Entry{Key: "chat", Value: []byte("v1")}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(context.Background(), memory.Entry{Key: "chat", Value: []byte("v2")}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "chat"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("file content = %q, want %q", string(got), "v2")
	}
}

func TestFileStore_Save_LeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	store := memory.NewFileStore(root)

	if err := store.Save(context.Background(), memory.Entry{Key: "chat", Value: []byte("[]")}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	files, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(files) != 1 || files[0].Name() != "chat" {
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Name())
		}
		t.Errorf("root contains %v, want only [chat]", names)
	}
}

func TestFileStore_Save_CanceledContext(t *testing.T) {
	root := t.TempDir()
	store := memory.NewFileStore(root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, memory.Entry{Key: "chat", Value: []byte("[]")})
	if !errors.Is(err, memory.ErrSaveFailed) {
		t.Errorf("Save() error = %v, want %v", err, memory.ErrSaveFailed)
	}
	if _, err := os.Stat(filepath.Join(root, "chat")); !os.IsNotExist(err) {
		t.Error("file should not exist after canceled Save")
	}
}

func TestFileStore_Delete(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "archive/old", "[]")

	store := memory.NewFileStore(root)

	if err := store.Delete(context.Background(), "archive/old"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "archive", "old")); !os.IsNotExist(err) {
		t.Error("file should not exist after Delete")
	}
	if _, err := os.Stat(filepath.Join(root, "archive")); !os.IsNotExist(err) {
		t.Error("empty parent directory should be removed after Delete")
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("root should survive Delete: %v", err)
	}
}

func TestFileStore_Delete_NonExistent(t *testing.T) {
	store := memory.NewFileStore(t.TempDir())

	if err := store.Delete(context.Background(), "chat"); err != nil {
		t.Errorf("Delete() error = %v, want nil for missing key", err)
	}
}

func TestFileStore_Delete_PreservesParentWithSiblings(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "archive/a", "a")
	writeTestFile(t, root, "archive/b", "b")

	store := memory.NewFileStore(root)

	if err := store.Delete(context.Background(), "archive/a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "archive")); os.IsNotExist(err) {
		t.Error("parent directory should be preserved when sibling files exist")
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := memory.NewFileStore(t.TempDir())

	original := []memory.Entry{
		{Key: "chat", Value: []byte(`[{"role":"user","content":"héllo 👋"}]`)},
		{Key: "archive/2026-09", Value: []byte("[]")},
	}

	if err := store.Save(context.Background(), original...); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	keys, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	loaded, err := store.Load(context.Background(), keys...)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("Load() returned %d entries, want %d", len(loaded), len(original))
	}

	got := make(map[string]string, len(loaded))
	for _, entry := range loaded {
		got[entry.Key] = string(entry.Value)
	}
	for _, entry := range original {
		val, ok := got[entry.Key]
		if !ok {
			t.Errorf("key %q not found in loaded entries", entry.Key)
			continue
		}
		if val != string(entry.Value) {
			t.Errorf("key %q: value = %q, want %q", entry.Key, val, string(entry.Value))
		}
	}
}

// writeTestFile creates a file with the given content under root.
func writeTestFile(t *testing.T, root, key, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}
