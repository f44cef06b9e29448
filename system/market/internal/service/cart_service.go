package service

import (
	"context"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/model"
)

// CartService 购物车
type CartService struct {
	carts  *dao.CartDao
	offers *dao.OfferDao
	orders *dao.OrderDao
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

func NewCartService(carts *dao.CartDao, offers *dao.OfferDao, orders *dao.OrderDao, log *logger.Log) *CartService {
	return &CartService{
		carts:  carts,
		offers: offers,
		orders: orders,
		log:    log.WithEntryName("CartService"),
		err:    errorc.NewErrorBuilder("CartService"),
	}
}

// Get 返回用户的购物车，第一次访问时创建
func (s *CartService) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	if _, err := s.carts.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	return s.carts.Load(ctx, userID)
}

// AddOffer 加入购物车，自己的报价和已售出的报价不能加入
func (s *CartService) AddOffer(ctx context.Context, userID, offerID int64) (*model.Cart, error) {
	offer, err := s.offers.FindById(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, s.err.New("报价不存在", nil).NotFound()
	}
	if offer.UserID == userID {
		return nil, s.err.New("不能购买自己的报价", nil).ValidWithCtx()
	}
	sold, err := s.orders.SoldOfferIDs(ctx, []int64{offerID})
	if err != nil {
		return nil, err
	}
	if len(sold) > 0 {
		return nil, s.err.New("报价已售出", nil).Conflict()
	}

	cart, err := s.carts.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.AddOffer(ctx, cart.ID, offerID); err != nil {
		return nil, err
	}
	return s.carts.Load(ctx, userID)
}

// RemoveOffer 报价不在购物车中时返回 NotFound
func (s *CartService) RemoveOffer(ctx context.Context, userID, offerID int64) (*model.Cart, error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, s.err.New("报价不在购物车中", nil).NotFound()
	}
	if err := s.carts.RemoveOffer(ctx, cart.ID, offerID); err != nil {
		return nil, err
	}
	return s.carts.Load(ctx, userID)
}
