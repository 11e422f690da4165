package imgutil

import (
	"strconv"
	"strings"
)

// DefaultAspectRatio は比率文字列が解釈できない場合のフォールバック値（16:9）です。
const DefaultAspectRatio = 16.0 / 9.0

// ParseAspectRatio は "W:H" 形式の文字列を幅/高さの比率に変換します。
// 形式が不正な場合や分母が0の場合はエラーにせず 16:9 にフォールバックします。
func ParseAspectRatio(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return DefaultAspectRatio
	}

	w, errW := strconv.ParseFloat(strings.TrimSpace(num), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return DefaultAspectRatio
	}

	return w / h
}
