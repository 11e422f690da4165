package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-scene-kit/internal/config"
	"github.com/shouni/go-scene-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// editCmd は、既存画像に自由文の編集指示を適用するサブコマンドなのだ。
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "既存画像に編集指示を適用して新しい画像を生成するのだ。",
	Long: `--base-image で指定した画像と --instruction の編集指示をGeminiに渡し、
指示を反映した新しい画像を生成・保存するのだ。`,
	RunE: editCommand,
}

func init() {
	editCmd.Flags().StringVarP(&opts.BaseImage, "base-image", "b", "", "編集対象の画像パスなのだ（ローカル or gs://...）。")
	editCmd.Flags().StringVarP(&opts.Instruction, "instruction", "t", "", "画像への編集指示（自由文）なのだ。")
}

func editCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.BaseImage == "" {
		return fmt.Errorf("編集対象の画像（--base-image）を指定してほしいのだ")
	}
	if opts.Instruction == "" {
		return fmt.Errorf("編集指示（--instruction）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("画像編集モードを起動するのだ！",
		"base_image", opts.BaseImage,
		"image_model", cfg.GeminiImageModel)

	return pipeline.ExecuteEdit(ctx, cfg)
}
