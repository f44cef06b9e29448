package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/model"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const checkoutLockPrefix = "cardmarket:checkout:"

// OrderService 订单与结算
type OrderService struct {
	db      *gorm.DB
	orders  *dao.OrderDao
	offers  *dao.OfferDao
	carts   *dao.CartDao
	locker  *redislock.Client
	lockTTL time.Duration
	now     func() time.Time
	log     *logger.Log
	err     *errorc.ErrorBuilder
}

// NewOrderService locker 为 nil 时结算不加分布式锁
func NewOrderService(db *gorm.DB, orders *dao.OrderDao, offers *dao.OfferDao, carts *dao.CartDao, locker *redislock.Client, lockTTL time.Duration, log *logger.Log) *OrderService {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &OrderService{
		db:      db,
		orders:  orders,
		offers:  offers,
		carts:   carts,
		locker:  locker,
		lockTTL: lockTTL,
		now:     time.Now,
		log:     log.WithEntryName("OrderService"),
		err:     errorc.NewErrorBuilder("OrderService"),
	}
}

// Checkout 把购物车中的报价转成一个订单并清空购物车，整个过程在一个事务内完成
func (s *OrderService) Checkout(ctx context.Context, userID int64) (*model.Order, error) {
	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, checkoutLockPrefix+strconv.FormatInt(userID, 10), s.lockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, s.err.New("结算正在进行中，请稍后再试", err).Conflict()
		}
		if err != nil {
			return nil, s.err.New("获取结算锁失败", err).Unavailable()
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				s.log.WithTrace(ctx).WithErr(err).Warn("释放结算锁失败")
			}
		}()
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		orders := s.orders.WithTx(tx)

		cart, err := carts.Load(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Offers) == 0 {
			return s.err.New("购物车为空", nil).ValidWithCtx()
		}

		sold, err := orders.SoldOfferIDs(ctx, cart.OfferIDs())
		if err != nil {
			return err
		}
		if len(sold) > 0 {
			return s.err.New("购物车中有报价已售出", nil).Conflict()
		}

		order = &model.Order{
			UserID:   userID,
			Date:     s.now(),
			Total:    cart.Total(),
			Code:     uuid.NewString(),
			OfferIDs: cart.OfferIDs(),
		}
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		_, err = carts.Clear(ctx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithTrace(ctx).WithUserID(userID).WithOrderID(order.ID).
		WithField("total", order.Total).
		Info("订单已创建")
	return order, nil
}

// OffersOf 订单包含的报价，订单不存在时返回 NotFound
func (s *OrderService) OffersOf(ctx context.Context, orderID int64) ([]*model.Offer, error) {
	order, err := s.orders.FindById(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, s.err.New("订单不存在", nil).NotFound()
	}
	return s.offers.FindByOrderID(ctx, orderID)
}

// History 用户的历史订单
func (s *OrderService) History(ctx context.Context, userID int64) ([]*model.Order, error) {
	return s.orders.FindByUserID(ctx, userID)
}
