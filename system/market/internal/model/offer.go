package model

// Offer 用户挂出的某张卡牌的报价
type Offer struct {
	ID        int64   `gorm:"column:idOfferta;primaryKey;autoIncrement" json:"id"`
	Condition string  `gorm:"column:condizione;type:varchar(64);not null" json:"condition" comment:"品相"`
	Price     float64 `gorm:"column:prezzo;not null" json:"price" comment:"价格"`
	UserID    int64   `gorm:"column:idUtente;not null;index" json:"userId" comment:"卖家"`
	CardID    int64   `gorm:"column:idCarta;not null;index" json:"cardId" comment:"卡牌"`

	Owner *User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	Card  *Card `gorm:"foreignKey:CardID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

func (*Offer) TableName() string { return "Offerta" }
func (*Offer) Kind() Kind        { return KindOffer }
func (o *Offer) GetID() int64    { return o.ID }
func (o *Offer) SetID(id int64)  { o.ID = id }
