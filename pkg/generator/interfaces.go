package generator

import (
	"context"

	"github.com/shouni/go-scene-kit/pkg/domain"
)

// SceneGenerator はビジネスロジック層が利用する統合窓口です。
type SceneGenerator interface {
	// GenerateScene は、合成済みプロンプトと参照画像群から1枚の画像を生成します。
	GenerateScene(ctx context.Context, req domain.GenerationRequest) (*domain.ImageResponse, error)
	// EditImage は、既存画像に自由文の編集指示を適用した新しい画像を生成します。
	EditImage(ctx context.Context, base domain.ReferenceImage, instruction string) (*domain.ImageResponse, error)
}
