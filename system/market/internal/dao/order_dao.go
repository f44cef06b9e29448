package dao

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/mvc"
	"cardmarket/system/market/internal/model"
	"context"
	"slices"

	"gorm.io/gorm"
)

// OrderDao 订单数据访问层，订单行与 OrdineContieneOfferte 关联行总是在同一事务中读写
type OrderDao struct {
	mvc.IBaseDao[model.Order]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewOrderDao(db *gorm.DB, log *logger.Log) *OrderDao {
	return &OrderDao{
		IBaseDao: mvc.NewGormDao[model.Order](db),
		log:      log.WithEntryName("OrderDao"),
		err:      errorc.NewErrorBuilder("OrderDao"),
		db:       db,
	}
}

func (d *OrderDao) WithTx(tx *gorm.DB) *OrderDao {
	return &OrderDao{
		IBaseDao: d.IBaseDao.WithTx(tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}

// Create 写入订单及其包含的报价，任一步失败整体回滚
func (d *OrderDao) Create(ctx context.Context, order *model.Order) error {
	order.OfferIDs = normalizeIDs(order.OfferIDs)
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := d.IBaseDao.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return d.WithTx(tx).insertOffers(ctx, order.ID, order.OfferIDs)
	})
}

// UpdateById 更新订单字段；OfferIDs 不为 nil 时同时替换包含的报价
func (d *OrderDao) UpdateById(ctx context.Context, id int64, order *model.Order) (int64, error) {
	var rows int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txDao := d.WithTx(tx)
		n, err := txDao.IBaseDao.UpdateById(ctx, id, order)
		if err != nil {
			return err
		}
		rows = n
		if order.OfferIDs == nil {
			return nil
		}
		order.OfferIDs = normalizeIDs(order.OfferIDs)
		if err := txDao.deleteOffers(ctx, id); err != nil {
			return err
		}
		return txDao.insertOffers(ctx, id, order.OfferIDs)
	})
	return rows, err
}

// DeleteById 先删关联行再删订单
func (d *OrderDao) DeleteById(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txDao := d.WithTx(tx)
		if err := txDao.deleteOffers(ctx, id); err != nil {
			return err
		}
		return txDao.IBaseDao.DeleteById(ctx, id)
	})
}

func (d *OrderDao) FindById(ctx context.Context, id int64) (*model.Order, error) {
	order, err := d.IBaseDao.FindById(ctx, id)
	if err != nil || order == nil {
		return order, err
	}
	order.OfferIDs, err = d.FindOfferIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (d *OrderDao) FindAll(ctx context.Context) ([]*model.Order, error) {
	orders, err := d.IBaseDao.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return orders, d.attachOffers(ctx, orders)
}

// FindByUserID 用户的历史订单
func (d *OrderDao) FindByUserID(ctx context.Context, userID int64) ([]*model.Order, error) {
	orders := make([]*model.Order, 0)
	err := d.db.WithContext(ctx).
		Where(eq("idUtente", userID)).
		Order(orderBy("data")).
		Order(orderBy("idOrdine")).
		Find(&orders).Error
	if err != nil {
		return nil, d.err.New("查询用户订单失败", err).DB()
	}
	return orders, d.attachOffers(ctx, orders)
}

// FindOfferIDs 订单包含的报价主键，升序
func (d *OrderDao) FindOfferIDs(ctx context.Context, orderID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := d.db.WithContext(ctx).Model(&model.OrderOffer{}).
		Where(eq("idOrdine", orderID)).
		Order(orderBy("idOfferta")).
		Pluck("idOfferta", &ids).Error
	if err != nil {
		return nil, d.err.New("查询订单报价失败", err).DB()
	}
	return ids, nil
}

// attachOffers 一次查询装载多条订单的报价主键
func (d *OrderDao) attachOffers(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byOrder := make(map[int64]*model.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.OfferIDs = make([]int64, 0)
		byOrder[o.ID] = o
		ids = append(ids, o.ID)
	}

	links := make([]*model.OrderOffer, 0)
	err := d.db.WithContext(ctx).
		Where(gormIn("idOrdine", ids)).
		Order(orderBy("idOrdine")).
		Order(orderBy("idOfferta")).
		Find(&links).Error
	if err != nil {
		return d.err.New("查询订单报价失败", err).DB()
	}
	for _, l := range links {
		if o, ok := byOrder[l.OrderID]; ok {
			o.OfferIDs = append(o.OfferIDs, l.OfferID)
		}
	}
	return nil
}

// normalizeIDs 升序去重，与读取时的顺序一致；nil 保持 nil
func normalizeIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func (d *OrderDao) insertOffers(ctx context.Context, orderID int64, offerIDs []int64) error {
	if len(offerIDs) == 0 {
		return nil
	}
	links := make([]*model.OrderOffer, 0, len(offerIDs))
	for _, id := range offerIDs {
		links = append(links, &model.OrderOffer{OrderID: orderID, OfferID: id})
	}
	result := d.db.WithContext(ctx).Create(&links)
	if result.Error != nil {
		return d.err.New("保存订单报价失败", result.Error).DB()
	}
	if result.RowsAffected != int64(len(links)) {
		return d.err.New("保存订单报价失败：影响行数异常", nil).DB()
	}
	return nil
}

func (d *OrderDao) deleteOffers(ctx context.Context, orderID int64) error {
	err := d.db.WithContext(ctx).Where(eq("idOrdine", orderID)).Delete(&model.OrderOffer{}).Error
	if err != nil {
		return d.err.New("删除订单报价失败", err).DB()
	}
	return nil
}

// SoldOfferIDs 返回给定报价中已经属于某个订单的那些
func (d *OrderDao) SoldOfferIDs(ctx context.Context, offerIDs []int64) ([]int64, error) {
	sold := make([]int64, 0)
	if len(offerIDs) == 0 {
		return sold, nil
	}
	err := d.db.WithContext(ctx).Model(&model.OrderOffer{}).
		Distinct("idOfferta").
		Where(gormIn("idOfferta", offerIDs)).
		Order(orderBy("idOfferta")).
		Pluck("idOfferta", &sold).Error
	if err != nil {
		return nil, d.err.New("查询已售报价失败", err).DB()
	}
	return sold, nil
}
