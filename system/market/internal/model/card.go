package model

// Card 卡牌目录
type Card struct {
	ID          int64  `gorm:"column:idCarta;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:nome;type:varchar(255);not null;index" json:"name" comment:"卡牌名称"`
	Expansion   string `gorm:"column:espansione;type:varchar(255)" json:"expansion" comment:"扩展包"`
	Rarity      string `gorm:"column:rarita;type:varchar(64)" json:"rarity" comment:"稀有度"`
	Description string `gorm:"column:descrizione;type:text" json:"description" comment:"描述"`
	ImageURL    string `gorm:"column:immagine;type:varchar(512)" json:"imageUrl" comment:"图片地址"`
}

func (*Card) TableName() string { return "Carta" }
func (*Card) Kind() Kind        { return KindCard }
func (c *Card) GetID() int64    { return c.ID }
func (c *Card) SetID(id int64)  { c.ID = id }
