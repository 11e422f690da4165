package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/shouni/go-scene-kit/internal/builder"
	"github.com/shouni/go-scene-kit/internal/config"
	"github.com/shouni/go-scene-kit/pkg/composer"
	"github.com/shouni/go-scene-kit/pkg/domain"
	"github.com/shouni/go-scene-kit/pkg/imgutil"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// ExecuteGenerate は、シーン定義（JSON）を読み込み、プロンプト合成 → 並列画像生成 →
// 保存 → 履歴追加までの一連の生成パイプラインを実行するのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	scene, err := loadScene(ctx, appCtx, cfg.Options.SceneFile)
	if err != nil {
		return err
	}

	prompt := composer.Compose(*scene)
	slog.Info("プロンプトを合成したのだ", "length", len(prompt),
		"references", len(scene.ReferenceImages()), "reference_urls", len(scene.ReferenceURLs()))

	req := domain.GenerationRequest{
		Prompt:        prompt,
		References:    scene.ReferenceImages(),
		ReferenceURLs: scene.ReferenceURLs(),
		StyleImage:    scene.Style,
		AspectRatio:   scene.AspectRatio,
	}
	if cfg.Options.Seed != 0 {
		seed := cfg.Options.Seed
		req.Seed = &seed
	}

	count := scene.ImageCount
	if cfg.Options.Count > 0 {
		count = cfg.Options.Count
	}

	images, err := runGenerateStep(ctx, appCtx, req, count)
	if err != nil {
		return err
	}

	store, err := builder.InitializeHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := store.Load(ctx); err != nil {
		return err
	}

	for i, img := range images {
		outputPath := path.Join(cfg.Options.OutputDir, fmt.Sprintf("scene_%02d.%s", i+1, mimeExt(img.MimeType)))
		if err := appCtx.Writer.Write(ctx, outputPath, bytes.NewReader(img.Data), img.MimeType); err != nil {
			return fmt.Errorf("画像 '%s' の保存に失敗したのだ: %w", outputPath, err)
		}
		slog.Info("画像を保存したのだ", "path", outputPath)

		if _, err := store.Append(ctx, domain.NewReferenceImageFromBytes(img.Data), prompt, domain.HistoryKindGeneration); err != nil {
			slog.Warn("履歴への追加に失敗したのだ", "error", err)
		}
	}

	slog.Info("すべての生成工程が完了したのだ！", "total", len(images))
	return nil
}

// ExecuteEdit は、既存画像に自由文の編集指示を適用して新しい画像を生成するのだ。
func ExecuteEdit(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	base, err := loadImage(ctx, appCtx, cfg.Options.BaseImage)
	if err != nil {
		return err
	}

	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	gen, err := builder.InitializeSceneGenerator(appCtx, aiClient)
	if err != nil {
		return err
	}

	slog.Info("画像編集を開始するのだ", "base", cfg.Options.BaseImage)
	resp, err := gen.EditImage(ctx, base, cfg.Options.Instruction)
	if err != nil {
		return fmt.Errorf("画像編集に失敗したのだ: %w", err)
	}

	outputPath := path.Join(cfg.Options.OutputDir, "edited."+mimeExt(resp.MimeType))
	if err := appCtx.Writer.Write(ctx, outputPath, bytes.NewReader(resp.Data), resp.MimeType); err != nil {
		return fmt.Errorf("編集結果の保存に失敗したのだ: %w", err)
	}

	store, err := builder.InitializeHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := store.Load(ctx); err != nil {
		return err
	}
	if _, err := store.Append(ctx, domain.NewReferenceImageFromBytes(resp.Data), cfg.Options.Instruction, domain.HistoryKindEdit); err != nil {
		slog.Warn("履歴への追加に失敗したのだ", "error", err)
	}

	slog.Info("画像編集が完了したのだ！", "path", outputPath)
	return nil
}

// ExecutePad は、入力画像を指定アスペクト比の透明キャンバス中央に配置して保存するのだ。
func ExecutePad(ctx context.Context, cfg *config.Config, inputPath, outputPath string) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	ref, err := loadImage(ctx, appCtx, inputPath)
	if err != nil {
		return err
	}

	padded, err := imgutil.PadToAspectRatio(ref, cfg.Options.Ratio)
	if err != nil {
		return fmt.Errorf("パディング処理に失敗したのだ: %w", err)
	}

	return writeImage(ctx, appCtx, outputPath, padded)
}

// ExecuteResize は、入力画像を長辺指定で縮小（または拡大）して保存するのだ。
func ExecuteResize(ctx context.Context, cfg *config.Config, inputPath, outputPath string) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	ref, err := loadImage(ctx, appCtx, inputPath)
	if err != nil {
		return err
	}

	resized, err := imgutil.ResizeToLongestSide(ref, cfg.Options.LongestSide)
	if err != nil {
		return fmt.Errorf("リサイズ処理に失敗したのだ: %w", err)
	}

	return writeImage(ctx, appCtx, outputPath, resized)
}

// ExecuteHistoryList は、保存済みの生成履歴を新しい順に一覧表示するのだ。
func ExecuteHistoryList(ctx context.Context, cfg *config.Config) error {
	store, err := builder.InitializeHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}

	items, err := store.Load(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("履歴はまだないのだ。")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%s  %s  %s\n", item.ID, item.CreatedAt.Format("2006-01-02 15:04:05"), item.Prompt)
	}
	return nil
}

// ExecuteHistoryRemove は、IDを指定して履歴エントリを1件削除するのだ。
func ExecuteHistoryRemove(ctx context.Context, cfg *config.Config, id string) error {
	store, err := builder.InitializeHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := store.Load(ctx); err != nil {
		return err
	}

	if !store.Remove(ctx, id) {
		return fmt.Errorf("ID '%s' の履歴が見つからないのだ", id)
	}
	slog.Info("履歴を削除したのだ", "id", id)
	return nil
}

// ExecuteHistoryClear は、すべての履歴を削除するのだ。確認ゲートは呼び出し側の責務なのだ。
func ExecuteHistoryClear(ctx context.Context, cfg *config.Config) error {
	store, err := builder.InitializeHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := store.Load(ctx); err != nil {
		return err
	}

	store.Clear(ctx)
	slog.Info("履歴をすべて削除したのだ")
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	timeout := cfg.Options.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, reader, writer)
	return &appCtx, nil
}

// runGenerateStep は BatchRunner を使って画像を並列生成するのだ
func runGenerateStep(ctx context.Context, appCtx *builder.AppContext, req domain.GenerationRequest, count int) ([]*domain.ImageResponse, error) {
	aiClient, err := builder.InitializeAIClient(ctx, appCtx.Config.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	gen, err := builder.InitializeSceneGenerator(appCtx, aiClient)
	if err != nil {
		return nil, err
	}

	runner, err := builder.BuildBatchRunner(appCtx, gen)
	if err != nil {
		return nil, err
	}

	images, err := runner.Run(ctx, req, count)
	if err != nil {
		return nil, fmt.Errorf("画像生成に失敗したのだ: %w", err)
	}
	return images, nil
}

// loadScene はシーン定義（JSON）を読み込み、デフォルト補完と検証まで済ませて返すのだ。
func loadScene(ctx context.Context, appCtx *builder.AppContext, scenePath string) (*domain.SceneState, error) {
	rc, err := appCtx.Reader.Open(ctx, scenePath)
	if err != nil {
		return nil, fmt.Errorf("シーンファイル '%s' の読み込みに失敗したのだ: %w", scenePath, err)
	}
	defer rc.Close()

	var scene domain.SceneState
	if err := json.NewDecoder(rc).Decode(&scene); err != nil {
		return nil, fmt.Errorf("シーンファイル '%s' のデコードに失敗したのだ: %w", scenePath, err)
	}

	scene.Normalize()
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("シーン定義が不正なのだ: %w", err)
	}
	return &scene, nil
}

// loadImage は Reader 経由で画像ファイルを読み込んで ReferenceImage に変換するのだ。
func loadImage(ctx context.Context, appCtx *builder.AppContext, imagePath string) (domain.ReferenceImage, error) {
	rc, err := appCtx.Reader.Open(ctx, imagePath)
	if err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("画像 '%s' の読み込みに失敗したのだ: %w", imagePath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.ReferenceImage{}, err
	}
	return domain.NewReferenceImageFromBytes(data), nil
}

func writeImage(ctx context.Context, appCtx *builder.AppContext, outputPath string, img domain.ReferenceImage) error {
	data, err := img.Bytes()
	if err != nil {
		return err
	}
	if err := appCtx.Writer.Write(ctx, outputPath, bytes.NewReader(data), img.MimeType); err != nil {
		return fmt.Errorf("画像 '%s' の保存に失敗したのだ: %w", outputPath, err)
	}
	slog.Info("画像を保存したのだ", "path", outputPath)
	return nil
}

// mimeExt は MIME タイプから保存用の拡張子を導くのだ。
func mimeExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}
