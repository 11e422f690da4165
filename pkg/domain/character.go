package domain

import (
	"fmt"
	"strings"
	"time"
)

// Character はシーンに配置する登場人物（またはオブジェクト）の定義を保持します。
// ID は追加時にタイムスタンプから採番され、並び順はプロンプトへの統合順として意味を持ちます。
// 参照画像はインライン（Image）と http(s) URL（ImageURL）のどちらでも指定できます。
type Character struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Image    *ReferenceImage `json:"image,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// HasInlineImage はインラインの参照画像が設定されているかどうかを返します。
func (c Character) HasInlineImage() bool {
	return c.Image != nil && !c.Image.IsZero()
}

// HasImageURL は参照画像のURLが設定されているかどうかを返します。
func (c Character) HasImageURL() bool {
	return strings.TrimSpace(c.ImageURL) != ""
}

// HasImage はインライン・URLを問わず、参照画像が設定されているかどうかを返します。
func (c Character) HasImage() bool {
	return c.HasInlineImage() || c.HasImageURL()
}

// HasDisplayName は空白のみではない表示名を持つかどうかを返します。
// プロンプトの統合句に載せるかどうかの判定はこちらを使います。
func (c Character) HasDisplayName() bool {
	return strings.TrimSpace(c.Name) != ""
}

// String はキャラクターの情報を文字列で返すのだ。
func (c Character) String() string {
	return fmt.Sprintf("%s (#%d)", c.Name, c.ID)
}

// Roster は順序を保持するキャラクター列です。並び替えは Move による
// remove-at / insert-at 操作のみで行い、残りの要素の相対順序は常に維持されます。
type Roster []Character

// Add はプレースホルダ名でキャラクターを追加し、追加された要素へのポインタを返します。
// ID は epoch ミリ秒を基準に採番し、既存 ID と衝突する場合は単調増加を保証します。
func (r *Roster) Add(name string) *Character {
	id := time.Now().UnixMilli()
	for _, c := range *r {
		if c.ID >= id {
			id = c.ID + 1
		}
	}
	*r = append(*r, Character{ID: id, Name: name})
	return &(*r)[len(*r)-1]
}

// Find は ID が一致するキャラクターを返します。見つからない場合は nil です。
func (r Roster) Find(id int64) *Character {
	for i := range r {
		if r[i].ID == id {
			return &r[i]
		}
	}
	return nil
}

// Remove は ID が一致するキャラクターを取り除きます。取り除けた場合に true を返します。
func (r *Roster) Remove(id int64) bool {
	for i, c := range *r {
		if c.ID == id {
			*r = append((*r)[:i], (*r)[i+1:]...)
			return true
		}
	}
	return false
}

// Move は ID が一致するキャラクターを指定位置へ移動します。
// 対象以外の要素の相対順序は変わりません。範囲外の位置は端に丸めます。
func (r *Roster) Move(id int64, index int) bool {
	from := -1
	for i, c := range *r {
		if c.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return false
	}

	moved := (*r)[from]
	rest := append((*r)[:from], (*r)[from+1:]...)

	if index < 0 {
		index = 0
	}
	if index > len(rest) {
		index = len(rest)
	}

	rest = append(rest, Character{})
	copy(rest[index+1:], rest[index:])
	rest[index] = moved
	*r = rest
	return true
}

// WithImages は参照画像を持つキャラクターだけを並び順を保って返します。
// 名前の有無は問いません（統合句の判定とは意図的に非対称です）。
func (r Roster) WithImages() []Character {
	var out []Character
	for _, c := range r {
		if c.HasImage() {
			out = append(out, c)
		}
	}
	return out
}
