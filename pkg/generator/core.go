package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"github.com/shouni/go-scene-kit/pkg/domain"
	"github.com/shouni/go-scene-kit/pkg/imgutil"
)

// GeminiSceneCore は参照画像の準備とレスポンス解析の共通ロジックを保持するコンポーネントです。
type GeminiSceneCore struct {
	httpClient HTTPClient
	cache      ImageCacher
	expiration time.Duration
}

// NewGeminiSceneCore は依存関係を注入して GeminiSceneCore を初期化します。
func NewGeminiSceneCore(httpClient HTTPClient, cache ImageCacher, cacheTTL time.Duration) (*GeminiSceneCore, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	// cache は nil を許容（キャッシュなし動作）

	return &GeminiSceneCore{
		httpClient: httpClient,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// ReferencePart は ReferenceImage をAPIに渡す genai.Part に変換します。
// 圧縮が有効な場合はJPEGへ変換してペイロードを抑制します。圧縮に失敗しても元データで続行します。
func (c *GeminiSceneCore) ReferencePart(ref domain.ReferenceImage) *genai.Part {
	data, err := ref.Bytes()
	if err != nil {
		return nil
	}

	finalData := data
	if UseImageCompression {
		if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
			finalData = compressed
		}
	}

	return c.toPart(finalData)
}

// FetchReferencePart は http(s) URL から参照画像を取得して genai.Part に変換します。
// 取得結果はTTL付きでキャッシュされ、SSRFの疑いがあるURLは拒否されます。
// 失敗しても生成自体は続行できるよう、エラーではなく nil を返します。
func (c *GeminiSceneCore) FetchReferencePart(ctx context.Context, rawURL string) *genai.Part {
	if c.cache != nil {
		if val, ok := c.cache.Get(cacheKeyReferencePart + rawURL); ok {
			if data, ok := val.([]byte); ok {
				return c.toPart(data)
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", val))
		}
	}

	if safe, err := IsSafeURL(rawURL); err != nil || !safe {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", rawURL, "error", err)
		return nil
	}

	data, err := c.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		slog.WarnContext(ctx, "参照画像のダウンロードに失敗しました", "url", rawURL, "error", err)
		return nil
	}

	if c.cache != nil {
		c.cache.Set(cacheKeyReferencePart+rawURL, data, c.expiration)
	}
	return c.toPart(data)
}

// toPart はバイト列を genai.Part (InlineData) に変換します。画像以外のデータは nil を返します。
func (c *GeminiSceneCore) toPart(data []byte) *genai.Part {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// ParseToResponse は Gemini のレスポンスを解析して ImageResponse に変換します。
func (c *GeminiSceneCore) ParseToResponse(resp *gemini.Response, seed int64) (*domain.ImageResponse, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	// 現在の仕様では、Geminiからの最初の候補 (Candidate) のみを利用する。
	candidate := resp.RawResponse.Candidates[0]

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.ImageResponse{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
					UsedSeed: seed,
				}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("画像生成が異常終了しました (FinishReason: %s)", candidate.FinishReason)
	}

	return nil, fmt.Errorf("画像データが見つかりませんでした")
}
