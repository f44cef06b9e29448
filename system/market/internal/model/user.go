package model

// User 注册用户
type User struct {
	ID       int64  `gorm:"column:idUtente;primaryKey;autoIncrement" json:"id"`
	Email    string `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email" comment:"邮箱"`
	Password string `gorm:"column:password;type:varchar(255);not null" json:"password,omitempty" comment:"密码"`
	Username string `gorm:"column:username;type:varchar(64);not null;uniqueIndex" json:"username" comment:"用户名"`
	Name     string `gorm:"column:nome;type:varchar(100)" json:"name" comment:"名"`
	Surname  string `gorm:"column:cognome;type:varchar(100)" json:"surname" comment:"姓"`
	Address  string `gorm:"column:indirizzo;type:varchar(255)" json:"address" comment:"地址"`
}

func (*User) TableName() string { return "Utente" }
func (*User) Kind() Kind        { return KindUser }
func (u *User) GetID() int64    { return u.ID }
func (u *User) SetID(id int64)  { u.ID = id }

// Public 去掉密码后的副本，用于接口输出
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Password = ""
	return &c
}
