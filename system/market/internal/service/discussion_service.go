package service

import (
	"context"
	"strings"
	"time"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/model"
)

// DiscussionService 论坛话题与消息
type DiscussionService struct {
	discussions *dao.DiscussionDao
	messages    *dao.MessageDao
	now         func() time.Time
	log         *logger.Log
	err         *errorc.ErrorBuilder
}

func NewDiscussionService(discussions *dao.DiscussionDao, messages *dao.MessageDao, log *logger.Log) *DiscussionService {
	return &DiscussionService{
		discussions: discussions,
		messages:    messages,
		now:         time.Now,
		log:         log.WithEntryName("DiscussionService"),
		err:         errorc.NewErrorBuilder("DiscussionService"),
	}
}

// Create 以当前用户为发起人创建话题
func (s *DiscussionService) Create(ctx context.Context, userID int64, title string) (*model.Discussion, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, s.err.New("标题不能为空", nil).ValidWithCtx()
	}
	d := &model.Discussion{UserID: userID, Title: title}
	if err := s.discussions.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DiscussionService) List(ctx context.Context) ([]*model.Discussion, error) {
	return s.discussions.FindAll(ctx)
}

// AddMessage 在已存在的话题下回复
func (s *DiscussionService) AddMessage(ctx context.Context, userID, discussionID int64, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, s.err.New("内容不能为空", nil).ValidWithCtx()
	}
	if err := s.mustExist(ctx, discussionID); err != nil {
		return nil, err
	}
	m := &model.Message{
		DiscussionID: discussionID,
		UserID:       userID,
		Text:         text,
		SentAt:       s.now(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages 话题下的消息，按发送时间排序
func (s *DiscussionService) ListMessages(ctx context.Context, discussionID int64) ([]*model.Message, error) {
	if err := s.mustExist(ctx, discussionID); err != nil {
		return nil, err
	}
	return s.messages.FindByDiscussionID(ctx, discussionID)
}

func (s *DiscussionService) mustExist(ctx context.Context, discussionID int64) error {
	d, err := s.discussions.FindById(ctx, discussionID)
	if err != nil {
		return err
	}
	if d == nil {
		return s.err.New("话题不存在", nil).NotFound()
	}
	return nil
}
