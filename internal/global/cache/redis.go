package cache

import (
	"club-activity-system/config"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

func Init() {
	cfg := config.Get().Redis
	Client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

const tokenBlacklistPrefix = "token:blacklist:"

// BlacklistToken 将令牌加入黑名单，ttl 取令牌剩余有效期
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if Client == nil || ttl <= 0 {
		return nil
	}
	return Client.Set(ctx, tokenBlacklistPrefix+token, 1, ttl).Err()
}

// IsTokenBlacklisted 查询令牌是否已注销，redis 未启用时视为未注销
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if Client == nil {
		return false
	}
	n, err := Client.Exists(ctx, tokenBlacklistPrefix+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}
