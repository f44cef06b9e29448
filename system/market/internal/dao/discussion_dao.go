package dao

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/mvc"
	"cardmarket/system/market/internal/model"
	"context"

	"gorm.io/gorm"
)

// DiscussionDao 话题数据访问层
type DiscussionDao struct {
	mvc.IBaseDao[model.Discussion]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewDiscussionDao(db *gorm.DB, log *logger.Log) *DiscussionDao {
	return &DiscussionDao{
		IBaseDao: mvc.NewGormDao[model.Discussion](db),
		log:      log.WithEntryName("DiscussionDao"),
		err:      errorc.NewErrorBuilder("DiscussionDao"),
		db:       db,
	}
}

func (d *DiscussionDao) FindByUserID(ctx context.Context, userID int64) ([]*model.Discussion, error) {
	return d.FindByColumn(ctx, "idUtente", userID)
}

// MessageDao 话题消息数据访问层
type MessageDao struct {
	mvc.IBaseDao[model.Message]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewMessageDao(db *gorm.DB, log *logger.Log) *MessageDao {
	return &MessageDao{
		IBaseDao: mvc.NewGormDao[model.Message](db),
		log:      log.WithEntryName("MessageDao"),
		err:      errorc.NewErrorBuilder("MessageDao"),
		db:       db,
	}
}

// FindByDiscussionID 按发送时间顺序返回话题下的消息
func (d *MessageDao) FindByDiscussionID(ctx context.Context, discussionID int64) ([]*model.Message, error) {
	messages := make([]*model.Message, 0)
	err := d.db.WithContext(ctx).
		Where(eq("idDiscussione", discussionID)).
		Order(orderBy("dataInvio")).
		Order(orderBy("idMessaggio")).
		Find(&messages).Error
	if err != nil {
		return nil, d.err.New("查询话题消息失败", err).DB()
	}
	return messages, nil
}
