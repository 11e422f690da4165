package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"github.com/shouni/go-scene-kit/pkg/domain"
)

// GeminiSceneGenerator は、シーン生成(GenerateScene)と既存画像の編集(EditImage)の
// 両方を担当する統合ジェネレーターです。
type GeminiSceneGenerator struct {
	core     *GeminiSceneCore
	aiClient gemini.GenerativeModel
	model    string
}

// NewGeminiSceneGenerator は依存関係を注入して GeminiSceneGenerator を初期化します。
func NewGeminiSceneGenerator(core *GeminiSceneCore, aiClient gemini.GenerativeModel, model string) (*GeminiSceneGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (GeminiSceneCore) is required")
	}
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (gemini.GenerativeModel) is required")
	}

	return &GeminiSceneGenerator{
		core:     core,
		aiClient: aiClient,
		model:    model,
	}, nil
}

// generateInternal は画像生成の共通ロジック（リクエスト、通信、解析）を一括で行うヘルパーなのだ。
func (g *GeminiSceneGenerator) generateInternal(ctx context.Context, parts []*genai.Part, aspectRatio string, seed *int64) (*domain.ImageResponse, error) {
	opts := gemini.GenerateOptions{
		AspectRatio: aspectRatio,
		Seed:        seed,
	}

	resp, err := g.aiClient.GenerateWithParts(ctx, g.model, parts, opts)
	if err != nil {
		return nil, err // ラップは呼び出し元で行うのだ
	}

	return g.core.ParseToResponse(resp, dereferenceSeed(seed))
}

// GenerateScene は、合成済みプロンプトと参照画像群から1枚の画像を生成します。
// パーツはプロンプト → インライン参照画像（統合順） → URL参照画像（統合順） → 画風参照の
// 順で構成します。URL参照はキャッシュ付きの FetchReferencePart で解決します。
func (g *GeminiSceneGenerator) GenerateScene(ctx context.Context, req domain.GenerationRequest) (*domain.ImageResponse, error) {
	parts := []*genai.Part{{Text: req.Prompt}}

	skipped := 0
	for i, ref := range req.References {
		imgPart := g.core.ReferencePart(ref)
		if imgPart == nil {
			// 失敗しても生成自体は続行し、警告ログを残すのだ。
			slog.WarnContext(ctx, "参照画像の変換に失敗しました", "index", i)
			skipped++
			continue
		}
		parts = append(parts, imgPart)
	}

	for _, rawURL := range req.ReferenceURLs {
		imgPart := g.core.FetchReferencePart(ctx, rawURL)
		if imgPart == nil {
			// 取得失敗の詳細ログは FetchReferencePart 側で出しているのだ。
			skipped++
			continue
		}
		parts = append(parts, imgPart)
	}

	if req.StyleImage != nil && !req.StyleImage.IsZero() {
		if imgPart := g.core.ReferencePart(*req.StyleImage); imgPart != nil {
			parts = append(parts, imgPart)
		}
	}

	slog.Info("AIに送信するパーツ構成が完了したのだ", "total_parts", len(parts), "skipped", skipped)

	resp, err := g.generateInternal(ctx, parts, req.AspectRatio, req.Seed)
	if err != nil {
		return nil, fmt.Errorf("Geminiシーン生成エラー: %w", err)
	}
	return resp, nil
}

// EditImage は、既存画像に自由文の編集指示を適用した新しい画像を生成します。
func (g *GeminiSceneGenerator) EditImage(ctx context.Context, base domain.ReferenceImage, instruction string) (*domain.ImageResponse, error) {
	basePart := g.core.ReferencePart(base)
	if basePart == nil {
		return nil, fmt.Errorf("編集対象の画像を変換できませんでした")
	}

	parts := []*genai.Part{
		{Text: instruction},
		basePart,
	}

	resp, err := g.generateInternal(ctx, parts, "", nil)
	if err != nil {
		return nil, fmt.Errorf("Gemini画像編集エラー: %w", err)
	}
	return resp, nil
}
