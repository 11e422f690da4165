package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-scene-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.SceneFile, "scene-file", "f", config.DefaultSceneFile, "シーン定義（JSON）のパスなのだ（ローカル or gs://...）。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "生成された画像を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "使用する Gemini 画像モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.RateInterval, "rate-interval", config.DefaultRateInterval, "並列生成時のAPIリクエスト間隔なのだ。")

	// --- 生成固有設定 ---
	rootCmd.PersistentFlags().IntVarP(&opts.Count, "count", "n", 0, "生成する画像の枚数（1〜4）。0ならシーン定義の値を使うのだ。")
	rootCmd.PersistentFlags().Int64Var(&opts.Seed, "seed", 0, "生成の再現用シード値なのだ（0は未指定）。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
// 履歴操作や画像ユーティリティはAPIを呼ばないので、チェックは生成系コマンドに限定するのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "generate", "edit":
		// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
		}
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"ap-scene-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		editCmd,
		historyCmd,
		imageCmd,
	)
}
