package service

import (
	"context"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/model"
)

// ExchangeService 报价交换：pending 只能转为 accepted 或 rejected
type ExchangeService struct {
	exchanges *dao.ExchangeDao
	offers    *dao.OfferDao
	log       *logger.Log
	err       *errorc.ErrorBuilder
}

func NewExchangeService(exchanges *dao.ExchangeDao, offers *dao.OfferDao, log *logger.Log) *ExchangeService {
	return &ExchangeService{
		exchanges: exchanges,
		offers:    offers,
		log:       log.WithEntryName("ExchangeService"),
		err:       errorc.NewErrorBuilder("ExchangeService"),
	}
}

// Propose 用自己的报价换别人的报价，接收方为被请求报价的卖家
func (s *ExchangeService) Propose(ctx context.Context, proposerID, offeredID, requestedID int64) (*model.Exchange, error) {
	offered, err := s.offer(ctx, offeredID)
	if err != nil {
		return nil, err
	}
	requested, err := s.offer(ctx, requestedID)
	if err != nil {
		return nil, err
	}
	if offered.UserID != proposerID {
		return nil, s.err.New("只能用自己的报价发起交换", nil).Forbidden()
	}
	if requested.UserID == proposerID {
		return nil, s.err.New("不能与自己交换", nil).ValidWithCtx()
	}

	ex := &model.Exchange{
		ProposerID:       proposerID,
		ReceiverID:       requested.UserID,
		OfferedOfferID:   offered.ID,
		RequestedOfferID: requested.ID,
		Status:           model.ExchangePending,
	}
	if err := s.exchanges.Create(ctx, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

func (s *ExchangeService) Accept(ctx context.Context, userID, exchangeID int64) (*model.Exchange, error) {
	return s.transition(ctx, userID, exchangeID, model.ExchangeAccepted)
}

func (s *ExchangeService) Reject(ctx context.Context, userID, exchangeID int64) (*model.Exchange, error) {
	return s.transition(ctx, userID, exchangeID, model.ExchangeRejected)
}

func (s *ExchangeService) ListForUser(ctx context.Context, userID int64) ([]*model.Exchange, error) {
	return s.exchanges.FindByUserID(ctx, userID)
}

// transition 只有接收方可以处理待定的交换
func (s *ExchangeService) transition(ctx context.Context, userID, exchangeID int64, to string) (*model.Exchange, error) {
	ex, err := s.exchanges.FindById(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return nil, s.err.New("交换请求不存在", nil).NotFound()
	}
	if ex.ReceiverID != userID {
		return nil, s.err.New("只有接收方可以处理交换请求", nil).Forbidden()
	}
	if err := s.exchanges.UpdateStatus(ctx, exchangeID, model.ExchangePending, to); err != nil {
		return nil, err
	}
	ex.Status = to
	s.log.WithTrace(ctx).WithUserID(userID).
		WithField("exchangeId", exchangeID).
		WithField("status", to).
		Info("交换请求已处理")
	return ex, nil
}

func (s *ExchangeService) offer(ctx context.Context, id int64) (*model.Offer, error) {
	o, err := s.offers.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, s.err.New("报价不存在", nil).NotFound()
	}
	return o, nil
}
