package builder

import (
	"github.com/shouni/go-scene-kit/internal/config"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、履歴バックエンドなど）。
	Options    config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です（シーンファイル、モデル名など）。
	Reader     remoteio.InputReader    // Readerは、シーン定義や編集対象画像の読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter   // Writerは、生成された画像を保存するための出力先です。
	httpClient httpkit.ClientInterface // httpClient は外部画像の取得に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.ClientInterface,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		httpClient: httpClient,
		Reader:     reader,
		Writer:     writer,
	}
}
