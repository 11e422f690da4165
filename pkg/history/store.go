// Package history は過去の生成・編集結果を新しい順で保持する、件数上限付きの履歴ストアです。
// 永続化は KeyValue コラボレータに委譲し、書き込み失敗はベストエフォートで握りつぶします
// （セッション中のメモリ上の履歴は維持されます）。
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shouni/go-scene-kit/pkg/domain"
	"github.com/shouni/go-scene-kit/pkg/imgutil"
)

const (
	// StorageKey は履歴リスト全体を保存する単一のキーです。
	StorageKey = "generationHistory"

	// MaxItems を超えた古いエントリは追加時に黙って捨てられます（アーカイブなし）。
	MaxItems = 10

	// ThumbnailLongestSide は保存前のリサイズで使う長辺ピクセル数です。
	// フル解像度を保持しないのは保存容量とのトレードオフによる意図的な仕様です。
	ThumbnailLongestSide = 512
)

// KeyValue は同期的なキーバリュー永続化コラボレータです。
// Get の第2戻り値はキーの存在有無を表します。
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store は件数上限付き・新しい順の履歴リストです。
type Store struct {
	kv KeyValue

	mu    sync.Mutex
	items []domain.HistoryItem
}

// NewStore は永続化コラボレータを注入して Store を初期化します。
func NewStore(kv KeyValue) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv is required")
	}
	return &Store{kv: kv}, nil
}

// Load は保存済みの履歴を読み込みます。起動時に一度呼び出します。
// 保存値がJSON配列として解釈できない場合は空の履歴として扱い、壊れたキーを削除します。
func (s *Store) Load(ctx context.Context) ([]domain.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		// 読み込み失敗も破損と同じ扱い：キーを消して空で続行する
		slog.Warn("履歴の読み込みに失敗したため空の履歴で続行します", "error", err)
		s.deleteKey(ctx)
		s.items = nil
		return nil, nil
	}
	if !ok {
		s.items = nil
		return nil, nil
	}

	var items []domain.HistoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Warn("保存されていた履歴が解釈できないため破棄します", "error", err)
		s.deleteKey(ctx)
		s.items = nil
		return nil, nil
	}
	// JSON の `null` はエラーなく nil になるため、配列以外の保存値として扱う
	if items == nil {
		slog.Warn("保存されていた履歴が配列ではないため破棄します")
		s.deleteKey(ctx)
		s.items = nil
		return nil, nil
	}

	s.items = items
	return s.snapshot(), nil
}

// Append は画像を長辺512pxに縮小してから履歴の先頭に追加し、上限を超えた分を切り捨てます。
// 縮小に失敗した場合はエントリを追加せずエラーを返します。
func (s *Store) Append(ctx context.Context, image domain.ReferenceImage, prompt string, kind domain.HistoryKind) (domain.HistoryItem, error) {
	thumb, err := imgutil.ResizeToLongestSide(image, ThumbnailLongestSide)
	if err != nil {
		return domain.HistoryItem{}, fmt.Errorf("履歴用サムネイルの生成に失敗しました: %w", err)
	}

	item := domain.NewHistoryItem(kind, thumb, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]domain.HistoryItem{item}, s.items...)
	if len(s.items) > MaxItems {
		s.items = s.items[:MaxItems]
	}
	s.persist(ctx)

	return item, nil
}

// Remove は ID が一致するエントリを取り除きます。取り除けた場合に true を返します。
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return true
		}
	}
	return false
}

// Clear は履歴を空にします。すでに空の場合は何もせず、永続化への書き込みも行いません。
// 確認ダイアログ等のゲートは呼び出し側の責務です。
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return
	}
	s.items = nil
	s.persist(ctx)
}

// Items は現在の履歴のスナップショットを新しい順で返します。
func (s *Store) Items() []domain.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// persist は現在のリスト全体を保存します。空リストは `[]` を書かずキー自体を削除します。
// 書き込み失敗は警告ログのみで握りつぶします。履歴の耐久性はベストエフォートです。
func (s *Store) persist(ctx context.Context) {
	if len(s.items) == 0 {
		s.deleteKey(ctx)
		return
	}

	data, err := json.Marshal(s.items)
	if err != nil {
		slog.Warn("履歴のシリアライズに失敗しました", "error", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		slog.Warn("履歴の保存に失敗しました。メモリ上の履歴は維持されます", "error", err)
	}
}

func (s *Store) deleteKey(ctx context.Context) {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		slog.Warn("履歴キーの削除に失敗しました", "error", err)
	}
}

func (s *Store) snapshot() []domain.HistoryItem {
	out := make([]domain.HistoryItem, len(s.items))
	copy(out, s.items)
	return out
}
