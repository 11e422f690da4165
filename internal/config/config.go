package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultRateInterval = 15 * time.Second
	DefaultRateBurst    = 2
	DefaultCacheTTL     = 30 * time.Minute
	DefaultSceneFile    = "examples/scene.json" // シーン定義（JSON）のデフォルトパス
	DefaultOutputDir    = "output/scenes"       // 生成画像のデフォルト保存先なのだ
	DefaultHistoryDir   = ".scene-kit"          // ファイルバックエンドの履歴保存ディレクトリ
)

// Config はアプリケーション全体の環境設定（APIキーや履歴バックエンド）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiImageModel string
	HistoryDir       string
	HistoryRedisAddr string // 空ならファイルバックエンドを使うのだ
	RedisUsername    string
	RedisPassword    string

	Options GenerateOptions
}

// LoadConfig は .env と環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	// .env はあれば読む。無くてもエラーにしないのだ。
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		HistoryDir:       envutil.GetEnv("SCENE_HISTORY_DIR", DefaultHistoryDir),
		HistoryRedisAddr: envutil.GetEnv("SCENE_HISTORY_REDIS_ADDR", ""),
		RedisUsername:    envutil.GetEnv("REDIS_USERNAME", ""),
		RedisPassword:    envutil.GetEnv("REDIS_PASSWORD", ""),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	SceneFile string // --scene-file
	OutputDir string // --output-dir

	// 画像編集関連
	BaseImage   string // --base-image
	Instruction string // --instruction

	// 画像ユーティリティ関連
	Ratio       string // --ratio
	LongestSide int    // --longest

	// AI挙動設定
	ImageModel string // --image-model
	Count      int    // --count
	Seed       int64  // --seed (0は未指定扱い)

	// 実行制御
	HTTPTimeout  time.Duration // --http-timeout
	RateInterval time.Duration // --rate-interval
	Yes          bool          // --yes: 確認プロンプトをスキップ
}
