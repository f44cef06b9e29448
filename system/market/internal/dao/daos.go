package dao

import (
	"cardmarket/pkg/core/logger"

	"gorm.io/gorm"
)

// Daos 交易市场全部数据访问对象
type Daos struct {
	Card       *CardDao
	Offer      *OfferDao
	Order      *OrderDao
	Cart       *CartDao
	Discussion *DiscussionDao
	Message    *MessageDao
	Review     *ReviewDao
	Exchange   *ExchangeDao
	User       *UserDao
}

func NewDaos(db *gorm.DB, log *logger.Log) *Daos {
	return &Daos{
		Card:       NewCardDao(db, log),
		Offer:      NewOfferDao(db, log),
		Order:      NewOrderDao(db, log),
		Cart:       NewCartDao(db, log),
		Discussion: NewDiscussionDao(db, log),
		Message:    NewMessageDao(db, log),
		Review:     NewReviewDao(db, log),
		Exchange:   NewExchangeDao(db, log),
		User:       NewUserDao(db, log),
	}
}
