package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileKV はローカルディレクトリ配下の1キー1ファイル構成のキーバリューストアです。
// CLI 利用時のデフォルトの永続化先です。
type FileKV struct {
	dir string
}

// NewFileKV は保存先ディレクトリを作成して FileKV を初期化します。
func NewFileKV(dir string) (*FileKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("履歴ディレクトリの作成に失敗しました: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get はキーに対応するファイルの内容を返します。ファイルがない場合は存在なしとして扱います。
func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Set は一時ファイル経由のアトミックな書き込みを行います。
func (f *FileKV) Set(_ context.Context, key, value string) error {
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(key))
}

// Delete はキーに対応するファイルを削除します。存在しない場合はエラーにしません。
func (f *FileKV) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
