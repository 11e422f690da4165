package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/shouni/go-scene-kit/internal/config"
	"github.com/shouni/go-scene-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// historyCmd は、生成履歴の一覧・削除を行う親コマンドなのだ。
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "生成履歴を一覧・削除するのだ。",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "保存済みの生成履歴を新しい順に表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		cfg.Options = opts
		return pipeline.ExecuteHistoryList(cmd.Context(), cfg)
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "IDを指定して履歴を1件削除するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		cfg.Options = opts
		return pipeline.ExecuteHistoryRemove(cmd.Context(), cfg, args[0])
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "すべての履歴を削除するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 全削除は取り返しがつかないので、--yes がない限り確認するのだ
		if !opts.Yes && !confirm("本当にすべての履歴を削除する？ [y/N]: ") {
			fmt.Println("キャンセルしたのだ。")
			return nil
		}

		cfg := config.LoadConfig()
		cfg.Options = opts
		return pipeline.ExecuteHistoryClear(cmd.Context(), cfg)
	},
}

func init() {
	historyClearCmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "確認プロンプトをスキップするのだ。")
	historyCmd.AddCommand(historyListCmd, historyRemoveCmd, historyClearCmd)
}

// confirm は標準入力から y/yes の応答を待つのだ。
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
