package config

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Mode     string `yaml:"mode"`
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func InitRDB(redisConfig RedisConfig, proxyConfig ProxyConfig) redis.UniversalClient {
	var dial func(ctx context.Context, network, addr string) (net.Conn, error)
	if proxyConfig.Enabled {
		dial = proxyConfig.GetContextDialer()
	}

	if redisConfig.Mode == "single" || redisConfig.Mode == "" {
		return redis.NewClient(&redis.Options{
			Addr:     redisConfig.Host,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
			Dialer:   dial,
		})
	}

	return redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       "mymaster",
		SentinelAddrs:    strings.Split(redisConfig.Host, ","),
		Password:         redisConfig.Password,
		SentinelPassword: redisConfig.Password,
		DB:               redisConfig.DB,
		Dialer:           dial,
	})
}

// InitCache 本地 TinyLFU + Redis 两级缓存；rdb 为空时只使用本地缓存
func InitCache(rdb redis.UniversalClient) *cache.Cache {
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(1000, time.Minute),
	}
	if rdb != nil {
		opts.Redis = rdb
	}
	return cache.New(opts)
}
