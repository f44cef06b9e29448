package service

import (
	"context"

	"cardmarket/pkg/core/rocketmq"
	"cardmarket/system/market/internal/model"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	jsoniter "github.com/json-iterator/go"
)

const cardCacheGroup = "GID_MARKET_CARD_CACHE"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type changeEnvelope struct {
	Kind model.Kind `json:"kind"`
	ID   int64      `json:"id"`
}

// CardCacheSyncBean 广播消费卡牌变更，清掉本实例的本地缓存
// Redis 中的缓存已由写入方删除
func (s *CatalogService) CardCacheSyncBean(topic string) *rocketmq.ConsumerBean {
	bean := &rocketmq.ConsumerBean{
		EntryName:     "CardCacheSync",
		Topic:         topic,
		GroupName:     cardCacheGroup,
		ConsumerModel: consumer.BroadCasting,
		Tag:           []string{rocketmq.UpdateTag, rocketmq.DeleteTag},
	}
	bean.ConsumerFunc = func(_ context.Context, ext ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
		for _, msg := range ext {
			var env changeEnvelope
			if err := json.Unmarshal(msg.Body, &env); err != nil {
				bean.ErrParse(msg.MsgId, err)
				continue
			}
			if env.Kind == model.KindCard {
				s.EvictLocal(env.ID)
			}
		}
		return consumer.ConsumeSuccess, nil
	}
	return bean
}
