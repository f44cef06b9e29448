package db

import (
	"context"
	"time"

	"cardmarket/pkg/core/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartKeepalive 按 cron 表达式定期 Ping 数据库，连接失效时尽早在日志中暴露
func StartKeepalive(db *gorm.DB, spec string) (*cron.Cron, error) {
	log := logger.GetLogger().WithEntryName("DBKeepalive")

	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(spec, func() {
		if err := Ping(context.Background(), db); err != nil {
			log.WithErr(err).Warn("数据库连接检查失败")
			return
		}
		log.Debug("数据库连接正常")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
