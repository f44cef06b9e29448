package dao

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/mvc"
	"cardmarket/system/market/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// UserDao 用户数据访问层
type UserDao struct {
	mvc.IBaseDao[model.User]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewUserDao(db *gorm.DB, log *logger.Log) *UserDao {
	return &UserDao{
		IBaseDao: mvc.NewGormDao[model.User](db),
		log:      log.WithEntryName("UserDao"),
		err:      errorc.NewErrorBuilder("UserDao"),
		db:       db,
	}
}

func (d *UserDao) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return d.ExistsByColumn(ctx, "email", email)
}

func (d *UserDao) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return d.ExistsByColumn(ctx, "username", username)
}

// FindByEmailAndPassword 邮箱与密码同时精确匹配才返回用户，否则返回 nil
// 密码按明文比较
func (d *UserDao) FindByEmailAndPassword(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := d.db.WithContext(ctx).
		Where(eq("email", email)).
		Where(eq("password", password)).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, d.err.New("校验用户凭证失败", err).DB()
	}
	// 部分数据库的默认排序规则不区分大小写，这里再做一次精确比较
	if user.Email != email || user.Password != password {
		return nil, nil
	}
	return &user, nil
}
