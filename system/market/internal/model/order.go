package model

import "time"

// Order 订单，OfferIDs 由 OrderOffer 关联表持久化
type Order struct {
	ID     int64     `gorm:"column:idOrdine;primaryKey;autoIncrement" json:"id"`
	UserID int64     `gorm:"column:idUtente;not null;index" json:"userId" comment:"买家"`
	Date   time.Time `gorm:"column:data;not null" json:"date" comment:"下单时间"`
	Total  float64   `gorm:"column:totale;not null" json:"total" comment:"总价"`
	Code   string    `gorm:"column:codice;type:varchar(36);uniqueIndex" json:"code" comment:"订单编号"`

	Buyer    *User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	OfferIDs []int64 `gorm:"-" json:"offerIds"`
}

func (*Order) TableName() string { return "Ordine" }
func (*Order) Kind() Kind        { return KindOrder }
func (o *Order) GetID() int64    { return o.ID }
func (o *Order) SetID(id int64)  { o.ID = id }

// OrderOffer 订单与报价的关联，一个报价只能出现在一个订单中
type OrderOffer struct {
	OrderID int64 `gorm:"column:idOrdine;primaryKey;autoIncrement:false"`
	OfferID int64 `gorm:"column:idOfferta;primaryKey;autoIncrement:false;uniqueIndex:uk_offerta_venduta"`

	Order *Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Offer *Offer `gorm:"foreignKey:OfferID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (*OrderOffer) TableName() string { return "OrdineContieneOfferte" }
