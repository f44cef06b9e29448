package dto

import "cardmarket/system/market/internal/model"

// LoginDTO 登录结果
type LoginDTO struct {
	Token     string      `json:"token" comment:"访问令牌"`
	ExpiresAt int64       `json:"expiresAt" comment:"过期时间"`
	User      *model.User `json:"user" comment:"当前用户"`
}

// PageDTO 分页结果
type PageDTO[T any] struct {
	Total   int64 `json:"total" comment:"总数"`
	Content []T   `json:"content" comment:"当前页数据"`
}

// ReviewSummaryDTO 用户收到的评价
type ReviewSummaryDTO[T any] struct {
	UserID  int64   `json:"userId" comment:"被评价用户"`
	Average float64 `json:"average" comment:"平均分"`
	Reviews []T     `json:"reviews" comment:"评价列表"`
}
