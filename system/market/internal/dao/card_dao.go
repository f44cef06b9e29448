package dao

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/mvc"
	"cardmarket/system/market/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CardDao 卡牌数据访问层
type CardDao struct {
	mvc.IBaseDao[model.Card]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewCardDao(db *gorm.DB, log *logger.Log) *CardDao {
	return &CardDao{
		IBaseDao: mvc.NewGormDao[model.Card](db),
		log:      log.WithEntryName("CardDao"),
		err:      errorc.NewErrorBuilder("CardDao"),
		db:       db,
	}
}

// SearchByName 按名称模糊查询
func (d *CardDao) SearchByName(ctx context.Context, name string) ([]*model.Card, error) {
	cards := make([]*model.Card, 0)
	err := d.db.WithContext(ctx).
		Where(clause.Like{Column: col("nome"), Value: "%" + name + "%"}).
		Order(orderBy("idCarta")).
		Find(&cards).Error
	if err != nil {
		return nil, d.err.New("查询卡牌失败", err).DB()
	}
	return cards, nil
}
