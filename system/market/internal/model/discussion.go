package model

import "time"

// Discussion 论坛话题
type Discussion struct {
	ID     int64  `gorm:"column:idDiscussione;primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"column:idUtente;not null;index" json:"userId"`
	Title  string `gorm:"column:titolo;type:varchar(255);not null" json:"title" comment:"标题"`

	Owner *User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

func (*Discussion) TableName() string { return "Discussione" }
func (*Discussion) Kind() Kind        { return KindDiscussion }
func (d *Discussion) GetID() int64    { return d.ID }
func (d *Discussion) SetID(id int64)  { d.ID = id }

// Message 话题下的一条消息
type Message struct {
	ID           int64     `gorm:"column:idMessaggio;primaryKey;autoIncrement" json:"id"`
	DiscussionID int64     `gorm:"column:idDiscussione;not null;index" json:"discussionId"`
	UserID       int64     `gorm:"column:idUtente;not null" json:"userId"`
	Text         string    `gorm:"column:testo;type:text;not null" json:"text" comment:"内容"`
	SentAt       time.Time `gorm:"column:dataInvio;not null" json:"sentAt"`

	Discussion *Discussion `gorm:"foreignKey:DiscussionID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	Author     *User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

func (*Message) TableName() string { return "Messaggio" }
func (*Message) Kind() Kind        { return KindMessage }
func (m *Message) GetID() int64    { return m.ID }
func (m *Message) SetID(id int64)  { m.ID = id }
