package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shouni/go-scene-kit/pkg/domain"
)

// BatchRunner は同一リクエストの画像を複数枚、並列で生成するランナーです。
// 1枚でも失敗した場合はバッチ全体を失敗として扱い、部分的な結果は返しません。
type BatchRunner struct {
	gen      SceneGenerator
	interval time.Duration
	burst    int
}

// NewBatchRunner は BatchRunner を初期化します。
// interval はAPIへのリクエスト間隔、burst は同時に開始できるリクエスト数です。
func NewBatchRunner(gen SceneGenerator, interval time.Duration, burst int) (*BatchRunner, error) {
	if gen == nil {
		return nil, fmt.Errorf("gen (SceneGenerator) is required")
	}
	if burst < 1 {
		burst = 1
	}
	return &BatchRunner{gen: gen, interval: interval, burst: burst}, nil
}

// Run は count 枚の画像を並列生成し、全件の完了を待ってから結果を返すのだ。
// all-or-nothing：どれか1枚でも失敗したらエラーを返し、成功分も破棄するのだ。
func (b *BatchRunner) Run(ctx context.Context, req domain.GenerationRequest, count int) ([]*domain.ImageResponse, error) {
	if count < domain.MinImageCount || count > domain.MaxImageCount {
		return nil, fmt.Errorf("生成枚数は%d〜%dの範囲で指定してください: %d", domain.MinImageCount, domain.MaxImageCount, count)
	}

	images := make([]*domain.ImageResponse, count)
	eg, egCtx := errgroup.WithContext(ctx)

	// 設定された間隔でレートリミット（流量制限）をかけるのだ
	limiter := rate.NewLimiter(rate.Every(b.interval), b.burst)
	slog.Info("並列画像生成を開始するのだ", "count", count, "interval", b.interval)

	for i := 0; i < count; i++ {
		eg.Go(func() error {
			// 1. レートリミットに従って、自分の番が来るまで待機するのだ
			if err := limiter.Wait(egCtx); err != nil {
				return err
			}

			slog.Info("画像を生成中...", "index", i+1, "total", count)
			resp, err := b.gen.GenerateScene(egCtx, req)
			if err != nil {
				slog.Error("画像生成に失敗したのだ", "index", i+1, "error", err)
				return err
			}

			images[i] = resp
			return nil
		})
	}

	// すべての並列処理が完了するのを待つのだ
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("すべての画像が正常に生成されたのだ", "total", count)
	return images, nil
}
