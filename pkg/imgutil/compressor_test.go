package imgutil

import (
	"bytes"
	"image"
	"testing"
)

func TestCompressToJPEG(t *testing.T) {
	t.Run("正常なPNG画像をJPEGに圧縮できること", func(t *testing.T) {
		src := createDummyRef(t, 10, 10, "png")
		data, err := src.Bytes()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := CompressToJPEG(data, 75)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(got) == 0 {
			t.Error("expected output data, but got empty")
		}

		// 出力がJPEGとしてデコード可能か確認
		_, format, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Errorf("failed to decode output image: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
	})

	t.Run("不正なデータを与えた場合にエラーを返すこと", func(t *testing.T) {
		invalidData := []byte("this is not an image")
		_, err := CompressToJPEG(invalidData, 75)
		if err == nil {
			t.Error("expected error for invalid data, but got nil")
		}
	})
}
