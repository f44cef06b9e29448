package dao

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/mvc"
	"cardmarket/system/market/internal/model"
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// ReviewDao 评价数据访问层
type ReviewDao struct {
	mvc.IBaseDao[model.Review]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewReviewDao(db *gorm.DB, log *logger.Log) *ReviewDao {
	return &ReviewDao{
		IBaseDao: mvc.NewGormDao[model.Review](db),
		log:      log.WithEntryName("ReviewDao"),
		err:      errorc.NewErrorBuilder("ReviewDao"),
		db:       db,
	}
}

// FindByReviewedUserID 查询某个用户收到的评价
func (d *ReviewDao) FindByReviewedUserID(ctx context.Context, userID int64) ([]*model.Review, error) {
	return d.FindByColumn(ctx, "idRecensito", userID)
}

// AverageScore 用户收到评价的平均分，没有评价时为 0
func (d *ReviewDao) AverageScore(ctx context.Context, userID int64) (float64, error) {
	var avg sql.NullFloat64
	err := d.db.WithContext(ctx).Model(&model.Review{}).
		Select("AVG(?)", col("voto")).
		Where(eq("idRecensito", userID)).
		Row().Scan(&avg)
	if err != nil {
		return 0, d.err.New("统计评分失败", err).DB()
	}
	return avg.Float64, nil
}
