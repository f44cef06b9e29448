package model

// Cart 用户的购物车，Offers 只在内存中维护，持久化由 CartOffer 关联表完成
type Cart struct {
	ID     int64 `gorm:"column:idCarrello;primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"column:idUtente;not null;uniqueIndex" json:"userId"`

	Owner  *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	Offers []*Offer `gorm:"-" json:"offers"`
}

func (*Cart) TableName() string { return "Carrello" }

func NewCart(cartID, userID int64) *Cart {
	return &Cart{ID: cartID, UserID: userID, Offers: make([]*Offer, 0)}
}

// AddOffer 追加报价，同一报价不会重复出现
func (c *Cart) AddOffer(offer *Offer) {
	if offer == nil || c.Contains(offer.ID) {
		return
	}
	c.Offers = append(c.Offers, offer)
}

// RemoveOffer 移除报价，返回是否确实移除
func (c *Cart) RemoveOffer(offerID int64) bool {
	for i, o := range c.Offers {
		if o.ID == offerID {
			c.Offers = append(c.Offers[:i], c.Offers[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Contains(offerID int64) bool {
	for _, o := range c.Offers {
		if o.ID == offerID {
			return true
		}
	}
	return false
}

func (c *Cart) Total() float64 {
	var total float64
	for _, o := range c.Offers {
		total += o.Price
	}
	return total
}

func (c *Cart) OfferIDs() []int64 {
	ids := make([]int64, 0, len(c.Offers))
	for _, o := range c.Offers {
		ids = append(ids, o.ID)
	}
	return ids
}

// CartOffer 购物车与报价的关联
type CartOffer struct {
	CartID  int64 `gorm:"column:idCarrello;primaryKey;autoIncrement:false"`
	OfferID int64 `gorm:"column:idOfferta;primaryKey;autoIncrement:false"`

	Cart  *Cart  `gorm:"foreignKey:CartID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Offer *Offer `gorm:"foreignKey:OfferID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (*CartOffer) TableName() string { return "CarrelloContieneOfferta" }
