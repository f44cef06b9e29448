package model

// Review 用户之间的评价
type Review struct {
	ID             int64  `gorm:"column:idRecensione;primaryKey;autoIncrement" json:"id"`
	AuthorID       int64  `gorm:"column:idAutore;not null" json:"authorId"`
	ReviewedUserID int64  `gorm:"column:idRecensito;not null;index" json:"reviewedUserId"`
	Score          int    `gorm:"column:voto;not null" json:"score" comment:"评分"`
	Comment        string `gorm:"column:commento;type:text" json:"comment" comment:"评语"`

	Author   *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	Reviewed *User `gorm:"foreignKey:ReviewedUserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

func (*Review) TableName() string { return "Recensione" }
func (*Review) Kind() Kind        { return KindReview }
func (r *Review) GetID() int64    { return r.ID }
func (r *Review) SetID(id int64)  { r.ID = id }
