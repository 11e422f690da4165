package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV は Redis をバックエンドとするキーバリューストアです。
// 複数インスタンスで履歴を共有するサーバー配置向けの実装です。
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV は接続確認を行ってから RedisKV を初期化します。
func NewRedisKV(ctx context.Context, addr, username, password string) (*RedisKV, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Username:     username,
		Password:     password,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("Redisへの接続に失敗しました: %w", err)
	}

	return &RedisKV{client: rdb}, nil
}

// Get はキーの値を返します。キーが存在しない場合は存在なしとして扱います。
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set はキーに値を保存します。TTLは設けません（上限はストア側の件数制限で担保します）。
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Delete はキーを削除します。
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close は下位のRedisクライアントを閉じます。
func (r *RedisKV) Close() error {
	return r.client.Close()
}
