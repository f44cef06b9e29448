package base

import (
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/rocketmq"
	"cardmarket/pkg/core/security"
	"cardmarket/pkg/core/start"
	"cardmarket/pkg/core/tracer"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	Configures *start.Configures
	Logger     *logger.Log
	ENV        string
	UserAuth   *security.UserAuth
	DB         *gorm.DB
	// RDB 未配置 Redis 时为 nil
	RDB    redis.UniversalClient
	Cache  *cache.Cache
	Locker *redislock.Client
	MQ     *rocketmq.RocketMQManager
	Tracer tracer.Tracer
)
