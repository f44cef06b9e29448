package app

import (
	"time"

	"cardmarket/pkg/core/config"
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/rocketmq"
	"cardmarket/pkg/core/security"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/service"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"gorm.io/gorm"
)

// Deps 交易市场组件依赖的外部资源，Cache、Locker、MQ 均可为空
type Deps struct {
	DB     *gorm.DB
	Log    *logger.Log
	Auth   *security.UserAuth
	Cache  *cache.Cache
	Locker *redislock.Client
	MQ     *rocketmq.RocketMQManager
	Market config.MarketConfig
}

// App 交易市场组件应用组合根
type App struct {
	Facade            *dao.Facade
	AuthService       *service.AuthService
	CatalogService    *service.CatalogService
	CartService       *service.CartService
	OrderService      *service.OrderService
	DiscussionService *service.DiscussionService
	ReviewService     *service.ReviewService
	ExchangeService   *service.ExchangeService
	Auth              *security.UserAuth
	MQ                *rocketmq.RocketMQManager
	log               *logger.Log
	err               *errorc.ErrorBuilder
	db                *gorm.DB
}

// NewApp 创建交易市场应用实例
func NewApp(deps Deps) *App {
	log := deps.Log.WithEntryName("MarketApp")

	// 创建 DAO
	daos := dao.NewDaos(deps.DB, log)
	facade := dao.NewFacade(daos, log)

	// 创建 Service
	catalog := service.NewCatalogService(daos.Card, daos.Offer, deps.Cache,
		time.Duration(deps.Market.CardCacheTTL)*time.Second, log)
	orders := service.NewOrderService(deps.DB, daos.Order, daos.Offer, daos.Cart, deps.Locker,
		time.Duration(deps.Market.CheckoutLockTTL)*time.Second, log)

	// 卡牌变更后清理缓存，开启消息队列时同时广播变更
	facade.AddListener(catalog)
	if deps.MQ.Enabled() {
		facade.AddListener(service.NewChangePublisher(deps.MQ, log))
	}

	return &App{
		Facade:            facade,
		AuthService:       service.NewAuthService(daos.User, deps.Auth, deps.Market.AdminEmails, log),
		CatalogService:    catalog,
		CartService:       service.NewCartService(daos.Cart, daos.Offer, daos.Order, log),
		OrderService:      orders,
		DiscussionService: service.NewDiscussionService(daos.Discussion, daos.Message, log),
		ReviewService:     service.NewReviewService(daos.Review, log),
		ExchangeService:   service.NewExchangeService(daos.Exchange, daos.Offer, log),
		Auth:              deps.Auth,
		MQ:                deps.MQ,
		log:               log,
		err:               errorc.NewErrorBuilder("MarketApp"),
		db:                deps.DB,
	}
}

// StartConsumers 启动组件的消息消费者，未开启消息队列时什么都不做
func (a *App) StartConsumers() error {
	if !a.MQ.Enabled() {
		return nil
	}
	return a.MQ.StartPushConsumer(a.CatalogService.CardCacheSyncBean(a.MQ.Topic()))
}
