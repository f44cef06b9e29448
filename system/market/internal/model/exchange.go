package model

const (
	ExchangePending  = "pending"
	ExchangeAccepted = "accepted"
	ExchangeRejected = "rejected"
)

// Exchange 两个用户之间以报价换报价的交换请求
type Exchange struct {
	ID               int64  `gorm:"column:idScambio;primaryKey;autoIncrement" json:"id"`
	ProposerID       int64  `gorm:"column:idProponente;not null;index" json:"proposerId"`
	ReceiverID       int64  `gorm:"column:idDestinatario;not null;index" json:"receiverId"`
	OfferedOfferID   int64  `gorm:"column:idOffertaProposta;not null" json:"offeredOfferId"`
	RequestedOfferID int64  `gorm:"column:idOffertaRichiesta;not null" json:"requestedOfferId"`
	Status           string `gorm:"column:stato;type:varchar(16);not null" json:"status"`

	Proposer       *User  `gorm:"foreignKey:ProposerID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	Receiver       *User  `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	OfferedOffer   *Offer `gorm:"foreignKey:OfferedOfferID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	RequestedOffer *Offer `gorm:"foreignKey:RequestedOfferID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

func (*Exchange) TableName() string { return "Scambio" }
func (*Exchange) Kind() Kind        { return KindExchange }
func (e *Exchange) GetID() int64    { return e.ID }
func (e *Exchange) SetID(id int64)  { e.ID = id }
