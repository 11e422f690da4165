package generator

import (
	"context"
	"time"
)

const (
	// UseImageCompression が真の場合、参照画像はAPIへ送る前にJPEGへ圧縮されます。
	UseImageCompression     = true
	ImageCompressionQuality = 75

	cacheKeyReferencePart = "reference_part:"
)

// ImageCacher は、参照画像データをキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// HTTPClient は、HTTPリクエストを実行し、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
