package cmd

import (
	"github.com/shouni/go-scene-kit/internal/config"
)

// opts は addAppFlags で各フラグに紐付けられる、コマンド横断の実行時パラメータなのだ。
var opts config.GenerateOptions
