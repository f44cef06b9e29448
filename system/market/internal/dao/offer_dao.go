package dao

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/mvc"
	"cardmarket/system/market/internal/model"
	"context"

	"gorm.io/gorm"
)

// OfferDao 报价数据访问层
type OfferDao struct {
	mvc.IBaseDao[model.Offer]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewOfferDao(db *gorm.DB, log *logger.Log) *OfferDao {
	return &OfferDao{
		IBaseDao: mvc.NewGormDao[model.Offer](db),
		log:      log.WithEntryName("OfferDao"),
		err:      errorc.NewErrorBuilder("OfferDao"),
		db:       db,
	}
}

func (d *OfferDao) WithTx(tx *gorm.DB) *OfferDao {
	return &OfferDao{
		IBaseDao: d.IBaseDao.WithTx(tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}

// FindByUserID 查询用户挂出的全部报价
func (d *OfferDao) FindByUserID(ctx context.Context, userID int64) ([]*model.Offer, error) {
	return d.find(ctx, "查询用户报价失败", eq("idUtente", userID))
}

// FindInUserCart 查询用户购物车中的报价：Offerta ⋈ CarrelloContieneOfferta ⋈ Carrello
func (d *OfferDao) FindInUserCart(ctx context.Context, userID int64) ([]*model.Offer, error) {
	carts := d.db.Model(&model.Cart{}).Select("idCarrello").Where(eq("idUtente", userID))
	inCart := d.db.Model(&model.CartOffer{}).Select("idOfferta").Where("? IN (?)", col("idCarrello"), carts)
	return d.find(ctx, "查询购物车报价失败", gorm.Expr("? IN (?)", col("idOfferta"), inCart))
}

// FindByOrderID 查询订单包含的报价
func (d *OfferDao) FindByOrderID(ctx context.Context, orderID int64) ([]*model.Offer, error) {
	inOrder := d.db.Model(&model.OrderOffer{}).Select("idOfferta").Where(eq("idOrdine", orderID))
	return d.find(ctx, "查询订单报价失败", gorm.Expr("? IN (?)", col("idOfferta"), inOrder))
}

// FindByIDs 按主键批量查询，结果按主键升序
func (d *OfferDao) FindByIDs(ctx context.Context, ids []int64) ([]*model.Offer, error) {
	if len(ids) == 0 {
		return make([]*model.Offer, 0), nil
	}
	return d.find(ctx, "批量查询报价失败", gormIn("idOfferta", ids))
}

func (d *OfferDao) find(ctx context.Context, msg string, cond interface{}) ([]*model.Offer, error) {
	offers := make([]*model.Offer, 0)
	err := d.db.WithContext(ctx).Where(cond).Order(orderBy("idOfferta")).Find(&offers).Error
	if err != nil {
		return nil, d.err.New(msg, err).DB()
	}
	return offers, nil
}
