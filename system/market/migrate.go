package market

import (
	"cardmarket/pkg/core/logger"
	"cardmarket/system/market/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移交易市场数据库表...")

	for _, table := range model.Tables() {
		if err := db.AutoMigrate(table); err != nil {
			log.WithErr(err).WithField("table", table.(interface{ TableName() string }).TableName()).Error("迁移交易市场数据库表失败")
			return err
		}
	}

	log.Info("交易市场数据库表迁移完成")
	return nil
}
