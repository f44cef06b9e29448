package rocketmq

import (
	"context"
	"errors"
	"testing"

	"cardmarket/pkg/core/config"
	errorc "cardmarket/pkg/core/err"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*primitive.Message
	err  error
}

func (f *fakeSender) SendSync(_ context.Context, mq ...*primitive.Message) (*primitive.SendResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, mq...)
	return &primitive.SendResult{MsgID: "m-1", Status: primitive.SendOK}, nil
}

func (f *fakeSender) Shutdown() error { return nil }

type card struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (card) TableName() string { return "Carta" }

func TestSendEntity_TagAndSharding(t *testing.T) {
	fake := &fakeSender{}
	m := &RocketMQManager{env: "dev", producer: fake}

	err := m.SendEntity(context.Background(), "market", UpdateTag, "7", card{ID: 7, Name: "Pikachu"})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	msg := fake.sent[0]
	assert.Equal(t, "market", msg.Topic)
	assert.Equal(t, "dev_update", msg.GetTags())
	assert.Equal(t, "Carta", msg.GetShardingKey())
	assert.Equal(t, "7", msg.GetKeys())
	assert.JSONEq(t, `{"id":7,"name":"Pikachu"}`, string(msg.Body))
}

func TestSendEntity_Failures(t *testing.T) {
	m := &RocketMQManager{}
	err := m.SendEntity(context.Background(), "market", CreateTag, "1", card{ID: 1})
	assert.True(t, errorc.IsUnavailable(err))

	m.producer = &fakeSender{err: errors.New("broker down")}
	err = m.SendEntity(context.Background(), "market", CreateTag, "1", card{ID: 1})
	assert.Equal(t, errorc.ErrorCodeThird, errorc.ParseError(err).ErrorCode)
}

func TestSelector_PrefixesEnv(t *testing.T) {
	m := &RocketMQManager{env: "prod"}
	assert.Equal(t, "*", m.selector(nil).Expression)
	assert.Equal(t, "prod_update || prod_delete", m.selector([]string{UpdateTag, DeleteTag}).Expression)
}

func TestConsume_WithoutRedisCallsHandler(t *testing.T) {
	m, err := NewRocketMQManager("dev", config.RocketMQ{}, nil)
	require.NoError(t, err)
	assert.False(t, m.Enabled())

	var got int
	bean := &ConsumerBean{
		EntryName:     "test",
		ConsumerModel: consumer.Clustering,
		ConsumerFunc: func(ctx context.Context, ext ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
			got += len(ext)
			return consumer.ConsumeSuccess, nil
		},
	}
	res, err := m.consume(context.Background(), bean, &primitive.MessageExt{MsgId: "a"}, &primitive.MessageExt{MsgId: "b"})
	require.NoError(t, err)
	assert.Equal(t, consumer.ConsumeSuccess, res)
	assert.Equal(t, 2, got)
}
