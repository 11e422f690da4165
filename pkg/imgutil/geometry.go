package imgutil

import (
	"encoding/base64"
	"image"
	"image/draw"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/shouni/go-scene-kit/pkg/domain"
)

// PadToAspectRatio は元画像を、指定比率を満たす大きめの透明キャンバスの中央に配置します。
// 元画像が目標より横長なら幅を維持して高さを伸ばし（上下に余白）、
// そうでなければ高さを維持して幅を伸ばします（左右に余白）。
// 余白は完全に透明のまま残すため、入力のエンコーディングに関わらず出力は常にPNGです。
// 比率文字列が不正な場合は ParseAspectRatio により 16:9 へフォールバックします。
func PadToAspectRatio(ref domain.ReferenceImage, ratio string) (domain.ReferenceImage, error) {
	data, err := ref.Bytes()
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	src, _, err := decode(data)
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	target := ParseAspectRatio(ratio)
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	newW, newH := srcW, srcH
	if float64(srcW)/float64(srcH) > target {
		// 横長：幅を維持し、高さを伸ばして上下に透明余白を作る
		newH = int(math.Round(float64(srcW) / target))
	} else {
		// 縦長または同比率：高さを維持し、幅を伸ばして左右に透明余白を作る
		newW = int(math.Round(float64(srcH) * target))
	}

	offsetX := (newW - srcW) / 2
	offsetY := (newH - srcH) / 2

	canvas := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.Draw(canvas, image.Rect(offsetX, offsetY, offsetX+srcW, offsetY+srcH), src, bounds.Min, draw.Src)

	encoded, err := encodePNG(canvas)
	if err != nil {
		return domain.ReferenceImage{}, err
	}
	return domain.ReferenceImage{Base64: toBase64(encoded), MimeType: "image/png"}, nil
}

// ResizeToLongestSide は長辺が longest ピクセルになるように縦横比を維持してリサイズします。
// 余白や透明領域は作りません。再エンコードは入力のエンコーディング系統を維持します
// （JPEGはJPEGのまま最高品質で、アルファを持てる形式はPNGで出力します）。
func ResizeToLongestSide(ref domain.ReferenceImage, longest int) (domain.ReferenceImage, error) {
	data, err := ref.Bytes()
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	src, _, err := decode(data)
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	var newW, newH int
	if srcW > srcH {
		ratio := float64(srcW) / float64(srcH)
		newW = longest
		newH = int(math.Round(float64(longest) / ratio))
	} else {
		ratio := float64(srcH) / float64(srcW)
		newH = longest
		newW = int(math.Round(float64(longest) / ratio))
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)

	if isJPEG(ref.MimeType) {
		encoded, err := encodeJPEGMax(dst)
		if err != nil {
			return domain.ReferenceImage{}, err
		}
		return domain.ReferenceImage{Base64: toBase64(encoded), MimeType: "image/jpeg"}, nil
	}

	encoded, err := encodePNG(dst)
	if err != nil {
		return domain.ReferenceImage{}, err
	}
	return domain.ReferenceImage{Base64: toBase64(encoded), MimeType: "image/png"}, nil
}

func toBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func isJPEG(mimeType string) bool {
	return strings.EqualFold(mimeType, "image/jpeg") || strings.EqualFold(mimeType, "image/jpg")
}
