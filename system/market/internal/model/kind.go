package model

import (
	"strings"

	errorc "cardmarket/pkg/core/err"
)

// Kind 实体类型
type Kind int

const (
	KindCard Kind = iota + 1
	KindOffer
	KindOrder
	KindDiscussion
	KindMessage
	KindReview
	KindExchange
	KindUser
)

var kindNames = map[Kind]string{
	KindCard:       "card",
	KindOffer:      "offer",
	KindOrder:      "order",
	KindDiscussion: "discussion",
	KindMessage:    "message",
	KindReview:     "review",
	KindExchange:   "exchange",
	KindUser:       "user",
}

var kindTables = map[Kind]string{
	KindCard:       "Carta",
	KindOffer:      "Offerta",
	KindOrder:      "Ordine",
	KindDiscussion: "Discussione",
	KindMessage:    "Messaggio",
	KindReview:     "Recensione",
	KindExchange:   "Scambio",
	KindUser:       "Utente",
}

// Kinds 全部实体类型，按声明顺序
func Kinds() []Kind {
	return []Kind{KindCard, KindOffer, KindOrder, KindDiscussion, KindMessage, KindReview, KindExchange, KindUser}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Table 实体对应的表名
func (k Kind) Table() string {
	return kindTables[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind 根据文本标签解析实体类型，大小写不敏感
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errorc.New("不支持的实体类型: "+s, nil).Unsupported()
}

// Entity 可以通过 Facade 统一读写的实体
type Entity interface {
	Kind() Kind
	GetID() int64
	SetID(id int64)
	TableName() string
}
