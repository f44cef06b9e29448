package rocketmq

import (
	errorc "cardmarket/pkg/core/err"
	"context"
	"fmt"
	"strings"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	jsoniter "github.com/json-iterator/go"
)

var (
	e    = errorc.NewErrorBuilder("Rocketmq")
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

const (
	CreateTag = "creation"
	UpdateTag = "update"
	DeleteTag = "delete"

	producerGroup = "GID_DATA_CHANGE"
)

// Entity 按表名分区发送的消息体
type Entity interface {
	TableName() string
}

// sender 生产者中实际用到的部分
type sender interface {
	SendSync(ctx context.Context, mq ...*primitive.Message) (*primitive.SendResult, error)
	Shutdown() error
}

type MessageBuilder struct {
	manager  *RocketMQManager
	topic    string
	tag      string
	sharding string
	message  interface{}
}

type tagBuilder struct {
	messageBuilder *MessageBuilder
}

type messageBuilder struct {
	messageBuilder *MessageBuilder
}

type stepBuilder struct {
	messageBuilder *MessageBuilder
}

// SendEntity 同一张表的消息进入同一个队列，保证同表变更有序
func (m *RocketMQManager) SendEntity(ctx context.Context, topic string, tag string, key string, entity Entity) error {
	return m.MessageBuilder(topic).
		Tag(tag).
		Message(entity).
		Sharding(entity.TableName()).
		SendShardingSync(ctx, key)
}

func (m *RocketMQManager) MessageBuilder(topic string) *tagBuilder {
	return &tagBuilder{
		messageBuilder: &MessageBuilder{
			manager: m,
			topic:   topic,
		},
	}
}

// Tag 自动为 tag 添加环境前缀，与消费者保持一致
func (t *tagBuilder) Tag(tag string) *messageBuilder {
	b := *t.messageBuilder
	b.tag = b.manager.fullTag(tag)
	return &messageBuilder{messageBuilder: &b}
}

func (t *messageBuilder) Message(message interface{}) *stepBuilder {
	b := *t.messageBuilder
	b.message = message
	return &stepBuilder{messageBuilder: &b}
}

func (t *stepBuilder) Sharding(sharding string) *stepBuilder {
	b := *t.messageBuilder
	b.sharding = sharding
	return &stepBuilder{messageBuilder: &b}
}

func (t *stepBuilder) SendShardingSync(ctx context.Context, keys ...string) error {
	b := t.messageBuilder
	return b.manager.sendShardingSync(ctx, b.topic, b.tag, b.sharding, b.message, keys)
}

func (m *RocketMQManager) fullTag(tag string) string {
	if m.env == "" {
		return tag
	}
	return m.env + "_" + tag
}

func (m *RocketMQManager) StartProducer() error {
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(strings.Split(m.rocketConfig.NameServer, ",")),
		producer.WithGroupName(producerGroup),
		producer.WithRetry(5),
		producer.WithQueueSelector(producer.NewHashQueueSelector()))
	if err != nil {
		log.WithErr(err).Error("创建Producer失败")
		return fmt.Errorf("创建Producer失败: %w", err)
	}

	err = p.Start()
	if err != nil {
		log.WithErr(err).Error("启动Producer失败")
		return fmt.Errorf("启动Producer失败: %w", err)
	}

	m.producer = p
	log.Info("rocketmq生产者启动成功")
	return nil
}

func (m *RocketMQManager) sendShardingSync(ctx context.Context, topic, tag, shardingKey string, message interface{}, keys []string) error {
	if m.producer == nil {
		return e.New("RocketMQ 生产者未启动", nil).Unavailable().WithTraceID(ctx)
	}
	body, err := coverMsg(message)
	if err != nil {
		return e.New("MQ将消息json化失败", err).WithTraceID(ctx)
	}
	newMessage := primitive.NewMessage(topic, body)
	newMessage.WithTag(tag)
	newMessage.WithShardingKey(shardingKey)
	newMessage.WithKeys(keys)

	result, err := m.producer.SendSync(ctx, newMessage)
	if err != nil {
		return e.New("发送分区顺序消息失败", err).Third().WithTraceID(ctx)
	}
	log.WithField("topic", topic).
		WithField("tag", tag).
		WithField("key", keys).
		WithField("shardingKey", shardingKey).
		WithField("msgID", result.MsgID).
		WithField("status", result.Status).Debug("发送分区顺序消息")
	return nil
}

func coverMsg(message interface{}) ([]byte, error) {
	switch v := message.(type) {
	case nil:
		return []byte(""), nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return json.Marshal(message)
}
