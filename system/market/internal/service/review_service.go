package service

import (
	"context"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/security"
	"cardmarket/system/market/api/dto"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/model"
	reqdto "cardmarket/system/market/internal/model/dto"
)

// ReviewService 用户评价
type ReviewService struct {
	reviews *dao.ReviewDao
	log     *logger.Log
	err     *errorc.ErrorBuilder
}

func NewReviewService(reviews *dao.ReviewDao, log *logger.Log) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		log:     log.WithEntryName("ReviewService"),
		err:     errorc.NewErrorBuilder("ReviewService"),
	}
}

// Create 不能评价自己
func (s *ReviewService) Create(ctx context.Context, authorID int64, req *reqdto.CreateReviewReq) (*model.Review, error) {
	if req.ReviewedUserID == authorID {
		return nil, s.err.New("不能评价自己", nil).ValidWithCtx()
	}
	r := &model.Review{
		AuthorID:       authorID,
		ReviewedUserID: req.ReviewedUserID,
		Score:          req.Score,
		Comment:        req.Comment,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete 只有作者或管理员可以删除评价，不存在时返回 NotFound
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	r, err := s.reviews.FindById(ctx, reviewID)
	if err != nil {
		return err
	}
	if r == nil {
		return s.err.New("评价不存在", nil).NotFound()
	}
	if r.AuthorID != userID && !security.HasPermission(ctx, security.MarketAdmin) {
		return s.err.New("只能删除自己写的评价", nil).Forbidden()
	}
	if err := s.reviews.DeleteById(ctx, reviewID); err != nil {
		return err
	}
	s.log.WithTrace(ctx).WithUserID(userID).WithField("reviewId", reviewID).Info("评价已删除")
	return nil
}

// ListForUser 用户收到的评价及平均分
func (s *ReviewService) ListForUser(ctx context.Context, userID int64) (*dto.ReviewSummaryDTO[*model.Review], error) {
	reviews, err := s.reviews.FindByReviewedUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	avg, err := s.reviews.AverageScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ReviewSummaryDTO[*model.Review]{UserID: userID, Average: avg, Reviews: reviews}, nil
}
