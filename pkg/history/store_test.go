package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-scene-kit/pkg/domain"
)

// テスト用のデコード可能なPNG参照画像を作成するヘルパー
func testImage(t *testing.T) domain.ReferenceImage {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{0, 128, 255, 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return domain.NewReferenceImageFromBytes(buf.Bytes())
}

func TestStore_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("追加したエントリが先頭に入り永続化されること", func(t *testing.T) {
		kv := newMockKV()
		store, err := NewStore(kv)
		require.NoError(t, err)

		item, err := store.Append(ctx, testImage(t), "first prompt", domain.HistoryKindGeneration)
		require.NoError(t, err)
		assert.Contains(t, item.ID, "generation-")

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "first prompt", items[0].Prompt)

		// 永続化された内容がJSON配列であること
		raw, ok, err := kv.Get(ctx, StorageKey)
		require.NoError(t, err)
		require.True(t, ok)
		var persisted []domain.HistoryItem
		require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
		assert.Len(t, persisted, 1)
	})

	t.Run("11件目の追加で最古のエントリだけが追い出されること", func(t *testing.T) {
		kv := newMockKV()
		store, err := NewStore(kv)
		require.NoError(t, err)

		img := testImage(t)
		for i := 1; i <= MaxItems+1; i++ {
			_, err := store.Append(ctx, img, fmt.Sprintf("prompt-%d", i), domain.HistoryKindGeneration)
			require.NoError(t, err)
		}

		items := store.Items()
		require.Len(t, items, MaxItems)
		// 新しい順：先頭が最新、最古（prompt-1）は消えている
		assert.Equal(t, "prompt-11", items[0].Prompt)
		assert.Equal(t, "prompt-2", items[MaxItems-1].Prompt)
		for _, item := range items {
			assert.NotEqual(t, "prompt-1", item.Prompt)
		}
	})

	t.Run("画像がサムネイルに縮小されて保存されること", func(t *testing.T) {
		kv := newMockKV()
		store, err := NewStore(kv)
		require.NoError(t, err)

		item, err := store.Append(ctx, testImage(t), "p", domain.HistoryKindEdit)
		require.NoError(t, err)

		// 20x10の元画像は512px未満なのでそのまま拡大される（長辺=512）
		data, err := item.Image.Bytes()
		require.NoError(t, err)
		decoded, _, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, ThumbnailLongestSide, decoded.Bounds().Dx())
	})

	t.Run("縮小できない画像はエントリを追加せずエラーになること", func(t *testing.T) {
		kv := newMockKV()
		store, err := NewStore(kv)
		require.NoError(t, err)

		bad := domain.NewReferenceImageFromBytes([]byte("not an image"))
		_, err = store.Append(ctx, bad, "p", domain.HistoryKindGeneration)
		assert.Error(t, err)
		assert.Empty(t, store.Items())
		assert.Zero(t, kv.setCalls)
	})

	t.Run("書き込み失敗は握りつぶされメモリ上の履歴は維持されること", func(t *testing.T) {
		kv := newMockKV()
		kv.setErr = fmt.Errorf("disk full")
		store, err := NewStore(kv)
		require.NoError(t, err)

		_, err = store.Append(ctx, testImage(t), "p", domain.HistoryKindGeneration)
		require.NoError(t, err)
		assert.Len(t, store.Items(), 1)
	})
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("キーがない場合は空の履歴になること", func(t *testing.T) {
		store, err := NewStore(newMockKV())
		require.NoError(t, err)

		items, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("保存済みの配列を読み込めること", func(t *testing.T) {
		kv := newMockKV()
		saved := []domain.HistoryItem{
			{ID: "generation-1", Prompt: "old prompt"},
		}
		data, err := json.Marshal(saved)
		require.NoError(t, err)
		kv.data[StorageKey] = string(data)

		store, err := NewStore(kv)
		require.NoError(t, err)

		items, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "generation-1", items[0].ID)
	})

	t.Run("配列ではない保存値は破棄されキーが削除されること", func(t *testing.T) {
		kv := newMockKV()
		kv.data[StorageKey] = `{"not":"an array"}`

		store, err := NewStore(kv)
		require.NoError(t, err)

		items, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 1, kv.deleteCalls)
		_, ok := kv.data[StorageKey]
		assert.False(t, ok, "壊れたキーは削除されるはずです")
	})

	t.Run("保存値がnullの場合も破棄されキーが削除されること", func(t *testing.T) {
		// `null` はJSON配列ではないがUnmarshalはエラーにならない
		kv := newMockKV()
		kv.data[StorageKey] = `null`

		store, err := NewStore(kv)
		require.NoError(t, err)

		items, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 1, kv.deleteCalls)
		_, ok := kv.data[StorageKey]
		assert.False(t, ok, "壊れたキーは削除されるはずです")
	})

	t.Run("読み込みエラーもキー削除と空履歴として扱われること", func(t *testing.T) {
		kv := newMockKV()
		kv.getErr = fmt.Errorf("io error")

		store, err := NewStore(kv)
		require.NoError(t, err)

		items, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 1, kv.deleteCalls)
	})
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	store, err := NewStore(kv)
	require.NoError(t, err)

	item, err := store.Append(ctx, testImage(t), "p", domain.HistoryKindGeneration)
	require.NoError(t, err)

	t.Run("IDで削除でき、空になったらキーごと消えること", func(t *testing.T) {
		assert.True(t, store.Remove(ctx, item.ID))
		assert.Empty(t, store.Items())

		// 空リストは `[]` を書かずキー自体を削除する
		_, ok := kv.data[StorageKey]
		assert.False(t, ok)
	})

	t.Run("存在しないIDはfalseを返すこと", func(t *testing.T) {
		assert.False(t, store.Remove(ctx, "generation-0"))
	})
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("空の状態でのクリアは永続化に書き込まないこと", func(t *testing.T) {
		kv := newMockKV()
		store, err := NewStore(kv)
		require.NoError(t, err)

		store.Clear(ctx)
		assert.Zero(t, kv.setCalls)
		assert.Zero(t, kv.deleteCalls)
	})

	t.Run("クリアで全件消えてキーも削除されること", func(t *testing.T) {
		kv := newMockKV()
		store, err := NewStore(kv)
		require.NoError(t, err)

		_, err = store.Append(ctx, testImage(t), "p", domain.HistoryKindGeneration)
		require.NoError(t, err)

		store.Clear(ctx)
		assert.Empty(t, store.Items())
		_, ok := kv.data[StorageKey]
		assert.False(t, ok)
	})
}

func TestNewStore(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
