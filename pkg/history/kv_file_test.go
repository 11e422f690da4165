package history

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileKV(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "history")

	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("存在しないキーは存在なしとして返ること", func(t *testing.T) {
		_, ok, err := kv.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("存在しないキーで ok = true が返りました")
		}
	})

	t.Run("Set/Getで値が往復すること", func(t *testing.T) {
		if err := kv.Set(ctx, StorageKey, `[{"id":"generation-1"}]`); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		val, ok, err := kv.Get(ctx, StorageKey)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || val != `[{"id":"generation-1"}]` {
			t.Errorf("値が一致しません: ok=%v, val=%s", ok, val)
		}
	})

	t.Run("Deleteでキーが消え、再削除はエラーにならないこと", func(t *testing.T) {
		if err := kv.Delete(ctx, StorageKey); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, ok, _ := kv.Get(ctx, StorageKey)
		if ok {
			t.Error("削除後もキーが存在しています")
		}
		if err := kv.Delete(ctx, StorageKey); err != nil {
			t.Errorf("存在しないキーの削除がエラーになりました: %v", err)
		}
	})
}

func TestNewFileKV(t *testing.T) {
	if _, err := NewFileKV(""); err == nil {
		t.Error("空のディレクトリ指定はエラーになるはずです")
	}
}
