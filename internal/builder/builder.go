package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-scene-kit/internal/config"
	"github.com/shouni/go-scene-kit/pkg/generator"
	"github.com/shouni/go-scene-kit/pkg/history"

	cache "github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializeSceneGenerator はシーン画像ジェネレーターを初期化します。
// 参照画像の取得結果はインメモリキャッシュに保持されます。
func InitializeSceneGenerator(appCtx *AppContext, aiClient gemini.GenerativeModel) (*generator.GeminiSceneGenerator, error) {
	refCache := cache.New(config.DefaultCacheTTL, 1*time.Hour)

	core, err := generator.NewGeminiSceneCore(appCtx.httpClient, refCache, config.DefaultCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("GeminiSceneCoreの初期化に失敗したのだ: %w", err)
	}

	gen, err := generator.NewGeminiSceneGenerator(core, aiClient, appCtx.Config.GeminiImageModel)
	if err != nil {
		return nil, fmt.Errorf("GeminiSceneGeneratorの初期化に失敗したのだ: %w", err)
	}
	return gen, nil
}

// BuildBatchRunner は複数枚の並列生成を担当する BatchRunner を構築します。
func BuildBatchRunner(appCtx *AppContext, gen generator.SceneGenerator) (*generator.BatchRunner, error) {
	interval := appCtx.Options.RateInterval
	if interval <= 0 {
		interval = config.DefaultRateInterval
	}

	runner, err := generator.NewBatchRunner(gen, interval, config.DefaultRateBurst)
	if err != nil {
		return nil, fmt.Errorf("BatchRunnerの構築に失敗したのだ: %w", err)
	}
	return runner, nil
}

// InitializeHistoryStore は履歴ストアを初期化します。
// Redisアドレスが設定されていればRedisを、なければローカルファイルをバックエンドに使います。
func InitializeHistoryStore(ctx context.Context, cfg *config.Config) (*history.Store, error) {
	var kv history.KeyValue

	if cfg.HistoryRedisAddr != "" {
		redisKV, err := history.NewRedisKV(ctx, cfg.HistoryRedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("Redis履歴バックエンドの初期化に失敗しました: %w", err)
		}
		kv = redisKV
	} else {
		fileKV, err := history.NewFileKV(cfg.HistoryDir)
		if err != nil {
			return nil, fmt.Errorf("ファイル履歴バックエンドの初期化に失敗しました: %w", err)
		}
		kv = fileKV
	}

	return history.NewStore(kv)
}
