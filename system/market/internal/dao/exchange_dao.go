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

// ExchangeDao 交换请求数据访问层
type ExchangeDao struct {
	mvc.IBaseDao[model.Exchange]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewExchangeDao(db *gorm.DB, log *logger.Log) *ExchangeDao {
	return &ExchangeDao{
		IBaseDao: mvc.NewGormDao[model.Exchange](db),
		log:      log.WithEntryName("ExchangeDao"),
		err:      errorc.NewErrorBuilder("ExchangeDao"),
		db:       db,
	}
}

// FindByUserID 用户发起或收到的交换请求
func (d *ExchangeDao) FindByUserID(ctx context.Context, userID int64) ([]*model.Exchange, error) {
	exchanges := make([]*model.Exchange, 0)
	err := d.db.WithContext(ctx).
		Where(clause.Or(eq("idProponente", userID), eq("idDestinatario", userID))).
		Order(orderBy("idScambio")).
		Find(&exchanges).Error
	if err != nil {
		return nil, d.err.New("查询交换请求失败", err).DB()
	}
	return exchanges, nil
}

// UpdateStatus 条件更新状态，只有当前状态等于 from 时才会写入 to
func (d *ExchangeDao) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	result := d.db.WithContext(ctx).Model(&model.Exchange{}).
		Where(eq("idScambio", id)).
		Where(eq("stato", from)).
		Update("stato", to)
	if result.Error != nil {
		return d.err.New("更新交换状态失败", result.Error).DB()
	}
	if result.RowsAffected == 1 {
		return nil
	}

	exists, err := d.ExistsByColumn(ctx, "idScambio", id)
	if err != nil {
		return err
	}
	if !exists {
		return d.err.New("交换请求不存在", nil).NotFound()
	}
	return d.err.New("交换请求状态已变更，当前不是 "+from, nil).Conflict()
}
