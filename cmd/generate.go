package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-scene-kit/internal/config"
	"github.com/shouni/go-scene-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、シーン定義から画像を生成するメインコマンドなのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "シーン定義（JSON）から画像を生成するのだ。",
	Long: `キャラクター・小物・ロケーションの参照画像とシーン設定を記述したJSONを読み込み、
プロンプトを合成してGeminiで画像を生成・保存するのだ。
--count で1〜4枚の並列生成ができるのだよ。`,
	RunE: generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.SceneFile == "" {
		return fmt.Errorf("シーン定義（--scene-file）を指定してほしいのだ")
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("シーン生成パイプラインを起動するのだ！",
		"scene_file", opts.SceneFile,
		"image_model", cfg.GeminiImageModel,
		"output_dir", opts.OutputDir)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	if err := pipeline.ExecuteGenerate(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	return nil
}
