package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// ReferenceImage は生成APIへ渡す参照画像（キャラクター・小物・ロケーション・画風）の
// 不変の値オブジェクトです。Base64 ペイロードと MIME タイプの組で保持します。
type ReferenceImage struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

// ParseDataURL は "data:image/png;base64,...." 形式の文字列を ReferenceImage に変換します。
// base64 以外のエンコーディングや不正な形式はエラーになります。
func ParseDataURL(dataURL string) (ReferenceImage, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return ReferenceImage{}, fmt.Errorf("data URLではありません: %q", truncateForError(dataURL))
	}

	mimeType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || mimeType == "" || payload == "" {
		return ReferenceImage{}, fmt.Errorf("base64形式のdata URLとして解釈できません: %q", truncateForError(dataURL))
	}

	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return ReferenceImage{}, fmt.Errorf("base64ペイロードのデコードに失敗しました: %w", err)
	}

	return ReferenceImage{Base64: payload, MimeType: mimeType}, nil
}

// NewReferenceImageFromBytes は生のバイト列から ReferenceImage を生成します。
// MIME タイプは先頭バイトから自動判定します。
func NewReferenceImageFromBytes(data []byte) ReferenceImage {
	return ReferenceImage{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MimeType: http.DetectContentType(data),
	}
}

// Bytes は Base64 ペイロードをデコードしてバイト列を返します。
func (r ReferenceImage) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(r.Base64)
	if err != nil {
		return nil, fmt.Errorf("参照画像のデコードに失敗しました: %w", err)
	}
	return data, nil
}

// DataURL は data URL 形式の文字列表現を返します。
func (r ReferenceImage) DataURL() string {
	return "data:" + r.MimeType + ";base64," + r.Base64
}

// IsZero は画像データを持たない空の値かどうかを返します。
func (r ReferenceImage) IsZero() bool {
	return r.Base64 == ""
}

// truncateForError はエラーメッセージに巨大なペイロードが混入しないよう先頭だけを残します。
func truncateForError(s string) string {
	const limit = 48
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
