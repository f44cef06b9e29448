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

// CartDao 购物车及其报价关联的数据访问层
type CartDao struct {
	mvc.IBaseDao[model.Cart]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewCartDao(db *gorm.DB, log *logger.Log) *CartDao {
	return &CartDao{
		IBaseDao: mvc.NewGormDao[model.Cart](db),
		log:      log.WithEntryName("CartDao"),
		err:      errorc.NewErrorBuilder("CartDao"),
		db:       db,
	}
}

func (d *CartDao) WithTx(tx *gorm.DB) *CartDao {
	return &CartDao{
		IBaseDao: d.IBaseDao.WithTx(tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}

// FindByUserID 每个用户至多一个购物车，不存在时返回 nil
func (d *CartDao) FindByUserID(ctx context.Context, userID int64) (*model.Cart, error) {
	return d.FindOneByColumn(ctx, "idUtente", userID)
}

// Ensure 返回用户的购物车，不存在则创建
func (d *CartDao) Ensure(ctx context.Context, userID int64) (*model.Cart, error) {
	cart, err := d.FindByUserID(ctx, userID)
	if err != nil || cart != nil {
		return cart, err
	}

	cart = &model.Cart{UserID: userID}
	err = d.Create(ctx, cart)
	if err == nil {
		return cart, nil
	}
	// 并发创建时唯一索引冲突，读回已存在的那一个
	if errorc.IsConflict(err) {
		return d.FindByUserID(ctx, userID)
	}
	return nil, err
}

// AddOffer 把报价放入购物车，重复放入不报错
func (d *CartDao) AddOffer(ctx context.Context, cartID, offerID int64) error {
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CartOffer{CartID: cartID, OfferID: offerID}).Error
	if err != nil {
		return d.err.New("加入购物车失败", err).DB()
	}
	return nil
}

// RemoveOffer 从购物车移除报价，报价不在购物车中时返回 NotFound
func (d *CartDao) RemoveOffer(ctx context.Context, cartID, offerID int64) error {
	result := d.db.WithContext(ctx).
		Where(eq("idCarrello", cartID)).
		Where(eq("idOfferta", offerID)).
		Delete(&model.CartOffer{})
	if result.Error != nil {
		return d.err.New("移出购物车失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return d.err.New("报价不在购物车中", nil).NotFound()
	}
	return nil
}

// ListOffers 购物车中的报价，按报价主键排序
func (d *CartDao) ListOffers(ctx context.Context, cartID int64) ([]*model.Offer, error) {
	inCart := d.db.Model(&model.CartOffer{}).Select("idOfferta").Where(eq("idCarrello", cartID))
	offers := make([]*model.Offer, 0)
	err := d.db.WithContext(ctx).
		Where("? IN (?)", col("idOfferta"), inCart).
		Order(orderBy("idOfferta")).
		Find(&offers).Error
	if err != nil {
		return nil, d.err.New("查询购物车报价失败", err).DB()
	}
	return offers, nil
}

// Load 读取用户的购物车并装载内存中的报价列表，不存在时返回 nil
func (d *CartDao) Load(ctx context.Context, userID int64) (*model.Cart, error) {
	cart, err := d.FindByUserID(ctx, userID)
	if err != nil || cart == nil {
		return cart, err
	}
	offers, err := d.ListOffers(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	loaded := model.NewCart(cart.ID, cart.UserID)
	for _, o := range offers {
		loaded.AddOffer(o)
	}
	return loaded, nil
}

// Clear 清空购物车，返回被移除的报价数
func (d *CartDao) Clear(ctx context.Context, cartID int64) (int64, error) {
	result := d.db.WithContext(ctx).Where(eq("idCarrello", cartID)).Delete(&model.CartOffer{})
	if result.Error != nil {
		return 0, d.err.New("清空购物车失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// DeleteById 删除购物车及其关联行
func (d *CartDao) DeleteById(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txDao := d.WithTx(tx)
		if _, err := txDao.Clear(ctx, id); err != nil {
			return err
		}
		return txDao.IBaseDao.DeleteById(ctx, id)
	})
}
