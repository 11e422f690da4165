// Package imgutil は生成パイプラインで使う画像変換（圧縮・パディング・リサイズ）を提供します。
package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
// 参照画像をAPIへ送る前のサイズ抑制に使います。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := decode(data)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// decode はバイト列を image.Image に復元します。パッケージ内の全変換の共通入口です。
func decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	return img, format, nil
}

// encodePNG は可逆・アルファ保持のPNGとしてエンコードします。
func encodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("PNGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeJPEGMax は最高品質のJPEGとしてエンコードします。
func encodeJPEGMax(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 100}); err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
