package service

import (
	"context"
	"strconv"

	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/rocketmq"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/model"
)

// entitySender RocketMQManager 中发布变更用到的部分
type entitySender interface {
	Enabled() bool
	Topic() string
	SendEntity(ctx context.Context, topic string, tag string, key string, entity rocketmq.Entity) error
}

// ChangeMessage 发往消息队列的实体变更，删除时 Entity 为空
type ChangeMessage struct {
	Kind   model.Kind   `json:"kind"`
	Op     dao.Op       `json:"op"`
	ID     int64        `json:"id"`
	Entity model.Entity `json:"entity,omitempty"`
}

// TableName 同一张表的变更进入同一个队列
func (m *ChangeMessage) TableName() string {
	return m.Kind.Table()
}

var opTags = map[dao.Op]string{
	dao.OpCreate: rocketmq.CreateTag,
	dao.OpUpdate: rocketmq.UpdateTag,
	dao.OpDelete: rocketmq.DeleteTag,
}

// ChangePublisher 把 Facade 的写入转发到 RocketMQ
type ChangePublisher struct {
	mq  entitySender
	log *logger.Log
}

func NewChangePublisher(mq entitySender, log *logger.Log) *ChangePublisher {
	return &ChangePublisher{
		mq:  mq,
		log: log.WithEntryName("ChangePublisher"),
	}
}

func (p *ChangePublisher) OnChange(ctx context.Context, event dao.ChangeEvent) error {
	if p.mq == nil || !p.mq.Enabled() {
		return nil
	}
	entity := event.Entity
	if u, ok := entity.(*model.User); ok {
		entity = u.Public()
	}
	msg := &ChangeMessage{Kind: event.Kind, Op: event.Op, ID: event.ID, Entity: entity}
	key := event.Kind.String() + ":" + strconv.FormatInt(event.ID, 10)
	return p.mq.SendEntity(ctx, p.mq.Topic(), opTags[event.Op], key, msg)
}
