package rocketmq

import (
	"cardmarket/pkg/core/config"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/tracer"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"github.com/redis/go-redis/v9"
)

var (
	log = logger.GetLogger().WithEntryName("RocketMQ")
)

const msgKeyCache = "cardmarket:mq:consumed:"

// RocketMQManager 管理 RocketMQ 生产者和消费者
type RocketMQManager struct {
	rocketConfig config.RocketMQ
	env          string
	rdb          redis.UniversalClient
	producer     sender
	consumers    []rocketmq.PushConsumer
	tracer       tracer.Tracer
}

// NewRocketMQManager 创建一个新的 RocketMQManager，未启用时不连接 NameServer
func NewRocketMQManager(env string, rocket config.RocketMQ, r redis.UniversalClient) (*RocketMQManager, error) {
	m := &RocketMQManager{
		rocketConfig: rocket,
		env:          env,
		rdb:          r,
		tracer:       tracer.NewSimpleTracer(),
	}
	if !rocket.Enable {
		return m, nil
	}
	rlog.SetLogLevel("error")
	return m, m.StartProducer()
}

func (m *RocketMQManager) Enabled() bool {
	return m != nil && m.rocketConfig.Enable
}

func (m *RocketMQManager) Topic() string {
	return m.rocketConfig.Topic
}

// Shutdown 关闭生产者与全部消费者
func (m *RocketMQManager) Shutdown() error {
	var firstErr error
	for _, c := range m.consumers {
		if err := c.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.producer != nil {
		if err := m.producer.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type ConsumerBean struct {
	EntryName     string
	Topic         string
	GroupName     string
	ConsumerModel consumer.MessageModel
	Tag           []string
	ConsumerFunc  func(context.Context, ...*primitive.MessageExt) (consumer.ConsumeResult, error)
}

func (c *ConsumerBean) ErrParse(msgId string, err error) {
	log.WithEntryName(c.EntryName).
		WithErr(err).
		WithField("msgId", msgId).
		Error("消费者解析消息失败")
}

// selector 订阅的 tag 同样带环境前缀
func (m *RocketMQManager) selector(tags []string) consumer.MessageSelector {
	if len(tags) == 0 {
		return consumer.MessageSelector{Type: consumer.TAG, Expression: "*"}
	}
	full := make([]string, 0, len(tags))
	for _, t := range tags {
		full = append(full, m.fullTag(t))
	}
	return consumer.MessageSelector{Type: consumer.TAG, Expression: strings.Join(full, " || ")}
}

// StartPushConsumer 使用给定的 bean 配置启动一个推送消费者
func (m *RocketMQManager) StartPushConsumer(bean *ConsumerBean) error {
	if !m.Enabled() {
		return nil
	}
	pushConsumer, err := rocketmq.NewPushConsumer(
		consumer.WithNameServer(strings.Split(m.rocketConfig.NameServer, ",")),
		consumer.WithGroupName(bean.GroupName+"_"+m.env),
		consumer.WithConsumerModel(bean.ConsumerModel),
		consumer.WithRetry(5))
	if err != nil {
		log.WithField("Consumer", bean.EntryName).WithErr(err).Error("创建消费者失败")
		return fmt.Errorf("创建消费者 %s 失败: %w", bean.EntryName, err)
	}

	err = pushConsumer.Subscribe(bean.Topic, m.selector(bean.Tag), func(ctx context.Context, ext ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
		return m.consume(ctx, bean, ext...)
	})
	if err != nil {
		log.WithField("Consumer", bean.EntryName).WithErr(err).Error("订阅消息失败")
		return fmt.Errorf("订阅主题 %s 失败: %w", bean.Topic, err)
	}

	if err = pushConsumer.Start(); err != nil {
		log.WithField("Consumer", bean.EntryName).WithErr(err).Error("启动消费者失败")
		return fmt.Errorf("启动消费者 %s 失败: %w", bean.EntryName, err)
	}

	m.consumers = append(m.consumers, pushConsumer)
	log.WithField("Consumer", bean.EntryName).Debug("启动消费者成功")
	return nil
}

// consume 广播模式直接处理；集群模式借助 Redis SETNX 做幂等，没有 Redis 时逐条直接处理
func (m *RocketMQManager) consume(ctx context.Context, bean *ConsumerBean, ext ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	if bean.ConsumerModel == consumer.BroadCasting || m.rdb == nil {
		trace, _, _ := m.tracer.StartTrace(context.Background(), bean.EntryName)
		return bean.ConsumerFunc(trace, ext...)
	}

	overallResult := consumer.ConsumeSuccess

	for _, msg := range ext {
		lockKey := msgKeyCache + bean.GroupName + ":" + msg.MsgId
		locked, err := m.rdb.SetNX(ctx, lockKey, 1, time.Hour).Result()
		if err != nil {
			log.WithErr(err).WithField("msgID", msg.MsgId).Error("幂等性检查失败: Redis SETNX 错误")
			return consumer.ConsumeRetryLater, err
		}
		if !locked {
			log.WithField("msgID", msg.MsgId).Debug("消息已被其他消费者锁定或已处理，跳过")
			continue
		}

		trace, _, _ := m.tracer.StartTrace(context.Background(), bean.EntryName)
		consumeResult, consumeErr := bean.ConsumerFunc(trace, msg)

		if consumeResult == consumer.ConsumeRetryLater {
			overallResult = consumer.ConsumeRetryLater
			// 删除锁，保证重投时能再次处理
			if err := m.rdb.Del(ctx, lockKey).Err(); err != nil {
				log.WithErr(err).WithField("key", lockKey).Error("消费重试前，删除 Redis 锁失败")
			}
			if consumeErr != nil {
				log.WithErr(consumeErr).WithField("msgID", msg.MsgId).Warn("业务逻辑处理失败，将进行重试")
			}
		} else if consumeErr != nil {
			log.WithErr(consumeErr).WithField("msgID", msg.MsgId).Error("业务逻辑返回成功但带有错误，消息将不会重试")
		}
	}

	return overallResult, nil
}
