package domain

import (
	"fmt"
	"sync"
	"time"
)

// HistoryKind は履歴エントリの生成経路を表します。
type HistoryKind string

const (
	HistoryKindGeneration HistoryKind = "generation"
	HistoryKindEdit       HistoryKind = "edit"
)

// HistoryItem は過去の生成・編集結果を1件分保持します。
// Image には常に長辺制限付きでリサイズ済みの縮小版が入ります（保存容量の抑制が目的であり、
// フル解像度の結果は保持しません）。
type HistoryItem struct {
	ID        string         `json:"id"`
	Image     ReferenceImage `json:"image"`
	Prompt    string         `json:"prompt"`
	CreatedAt time.Time      `json:"createdAt"`
}

var (
	historyIDMu       sync.Mutex
	lastHistoryMillis int64
)

// nextHistoryMillis はID採番用のミリ秒を返します。同一ミリ秒内の連続採番でも
// 単調増加を保証します（Roster.Add と同じ方針）。
func nextHistoryMillis(now time.Time) int64 {
	historyIDMu.Lock()
	defer historyIDMu.Unlock()

	millis := now.UnixMilli()
	if millis <= lastHistoryMillis {
		millis = lastHistoryMillis + 1
	}
	lastHistoryMillis = millis
	return millis
}

// NewHistoryItem は "<kind>-<epochミリ秒>" 形式のIDを採番して履歴エントリを生成します。
// ミリ秒部分は採番ごとに単調増加し、同一ミリ秒内でもIDは衝突しません。
func NewHistoryItem(kind HistoryKind, image ReferenceImage, prompt string) HistoryItem {
	now := time.Now()
	return HistoryItem{
		ID:        fmt.Sprintf("%s-%d", kind, nextHistoryMillis(now)),
		Image:     image,
		Prompt:    prompt,
		CreatedAt: now,
	}
}
