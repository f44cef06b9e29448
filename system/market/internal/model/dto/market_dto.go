package dto

// RegisterReq 用户注册请求
type RegisterReq struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255" comment:"邮箱"`
	Password string `json:"password" form:"password" validate:"required,min=4,max=255" comment:"密码"`
	Username string `json:"username" form:"username" validate:"required,nonblank,min=3,max=64" comment:"用户名"`
	Name     string `json:"name" form:"nome" validate:"max=100" comment:"名"`
	Surname  string `json:"surname" form:"cognome" validate:"max=100" comment:"姓"`
	Address  string `json:"address" form:"indirizzo" validate:"max=255" comment:"地址"`
}

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" form:"email" validate:"required,email" comment:"邮箱"`
	Password string `json:"password" form:"password" validate:"required" comment:"密码"`
}

// CreateDiscussionReq 创建话题，表单字段沿用 topic-title
type CreateDiscussionReq struct {
	Title string `json:"topic-title" form:"topic-title" validate:"required,nonblank,max=255" comment:"标题"`
}

// AddMessageReq 话题回复
type AddMessageReq struct {
	Text string `json:"text" form:"text" validate:"required,nonblank,max=4000" comment:"内容"`
}

// CreateReviewReq 评价其他用户
type CreateReviewReq struct {
	ReviewedUserID int64  `json:"reviewedUserId" form:"idRecensito" validate:"required,gt=0" comment:"被评价用户"`
	Score          int    `json:"score" form:"voto" validate:"required,gte=1,lte=5" comment:"评分"`
	Comment        string `json:"comment" form:"commento" validate:"max=2000" comment:"评语"`
}

// RemoveReviewReq 删除评价，表单字段沿用 idRecensione
type RemoveReviewReq struct {
	ReviewID int64 `json:"idRecensione" form:"idRecensione" validate:"required,gt=0" comment:"评价ID"`
}

// ProposeExchangeReq 发起交换
type ProposeExchangeReq struct {
	OfferedOfferID   int64 `json:"offeredOfferId" form:"idOffertaProposta" validate:"required,gt=0" comment:"提供的报价"`
	RequestedOfferID int64 `json:"requestedOfferId" form:"idOffertaRichiesta" validate:"required,gt=0" comment:"想要的报价"`
}
