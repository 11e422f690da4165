package cmd

import (
	"github.com/shouni/go-scene-kit/internal/config"
	"github.com/shouni/go-scene-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// imageCmd は、AIを使わないローカル画像ユーティリティの親コマンドなのだ。
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "画像のパディング・リサイズを行うユーティリティなのだ。",
}

var imagePadCmd = &cobra.Command{
	Use:   "pad <input> <output>",
	Short: "画像を指定アスペクト比の透明キャンバス中央に配置するのだ。",
	Long: `元画像を切り取らず、指定比率を満たす大きめの透明キャンバスの中央に配置するのだ。
余白は透明のまま残すため、出力は常にPNGになるのだよ。`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		cfg.Options = opts
		return pipeline.ExecutePad(cmd.Context(), cfg, args[0], args[1])
	},
}

var imageResizeCmd = &cobra.Command{
	Use:   "resize <input> <output>",
	Short: "縦横比を維持したまま長辺指定でリサイズするのだ。",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		cfg.Options = opts
		return pipeline.ExecuteResize(cmd.Context(), cfg, args[0], args[1])
	},
}

func init() {
	imagePadCmd.Flags().StringVar(&opts.Ratio, "ratio", "16:9", "目標のアスペクト比（\"W:H\"形式）なのだ。不正な値は16:9として扱うのだ。")
	imageResizeCmd.Flags().IntVar(&opts.LongestSide, "longest", 512, "リサイズ後の長辺ピクセル数なのだ。")
	imageCmd.AddCommand(imagePadCmd, imageResizeCmd)
}
