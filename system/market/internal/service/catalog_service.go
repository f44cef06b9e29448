package service

import (
	"context"
	"strconv"
	"time"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/mvc"
	"cardmarket/system/market/api/dto"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/model"

	"github.com/go-redis/cache/v9"
)

const cardCachePrefix = "cardmarket:card:"

// CatalogService 卡牌目录，单张卡牌的读取经过两级缓存
type CatalogService struct {
	cards  *dao.CardDao
	offers *dao.OfferDao
	cache  *cache.Cache
	ttl    time.Duration
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewCatalogService c 为 nil 时直接读库
func NewCatalogService(cards *dao.CardDao, offers *dao.OfferDao, c *cache.Cache, ttl time.Duration, log *logger.Log) *CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogService{
		cards:  cards,
		offers: offers,
		cache:  c,
		ttl:    ttl,
		log:    log.WithEntryName("CatalogService"),
		err:    errorc.NewErrorBuilder("CatalogService"),
	}
}

func cardKey(id int64) string {
	return cardCachePrefix + strconv.FormatInt(id, 10)
}

// Get 卡牌不存在时返回 nil, nil，不存在的结果不会被缓存
func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Card, error) {
	if s.cache == nil {
		return s.cards.FindById(ctx, id)
	}

	var card model.Card
	err := s.cache.Once(&cache.Item{
		Ctx:   ctx,
		Key:   cardKey(id),
		Value: &card,
		TTL:   s.ttl,
		Do: func(item *cache.Item) (interface{}, error) {
			c, err := s.cards.FindById(item.Ctx, id)
			if err != nil {
				return nil, err
			}
			if c == nil {
				return nil, s.err.New("卡牌不存在", nil).NotFound()
			}
			return c, nil
		},
	})
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// List 分页列出卡牌
func (s *CatalogService) List(ctx context.Context, page *mvc.Page) (*dto.PageDTO[*model.Card], error) {
	cards, total, err := s.cards.FindPage(ctx, page)
	if err != nil {
		return nil, err
	}
	return &dto.PageDTO[*model.Card]{Total: total, Content: cards}, nil
}

func (s *CatalogService) Search(ctx context.Context, name string) ([]*model.Card, error) {
	return s.cards.SearchByName(ctx, name)
}

// OffersOfUser 用户挂出的报价
func (s *CatalogService) OffersOfUser(ctx context.Context, userID int64) ([]*model.Offer, error) {
	return s.offers.FindByUserID(ctx, userID)
}

// Invalidate 删除本地与 Redis 中的缓存
func (s *CatalogService) Invalidate(ctx context.Context, id int64) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, cardKey(id)); err != nil && err != cache.ErrCacheMiss {
		return s.err.New("删除卡牌缓存失败", err).Third()
	}
	return nil
}

// EvictLocal 只删除本地缓存，用于其他实例广播过来的变更
func (s *CatalogService) EvictLocal(id int64) {
	if s.cache != nil {
		s.cache.DeleteFromLocalCache(cardKey(id))
	}
}

// OnChange 卡牌被更新或删除后让缓存失效
func (s *CatalogService) OnChange(ctx context.Context, event dao.ChangeEvent) error {
	if event.Kind != model.KindCard || event.Op == dao.OpCreate {
		return nil
	}
	return s.Invalidate(ctx, event.ID)
}
