package service

import (
	"context"
	"strings"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/security"
	"cardmarket/system/market/api/dto"
	"cardmarket/system/market/internal/dao"
	"cardmarket/system/market/internal/model"
	reqdto "cardmarket/system/market/internal/model/dto"
)

// AuthService 用户注册与登录
// 密码以明文保存并比较
type AuthService struct {
	dao         *dao.UserDao
	auth        *security.UserAuth
	adminEmails map[string]struct{}
	log         *logger.Log
	err         *errorc.ErrorBuilder
}

func NewAuthService(userDao *dao.UserDao, auth *security.UserAuth, adminEmails []string, log *logger.Log) *AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &AuthService{
		dao:         userDao,
		auth:        auth,
		adminEmails: admins,
		log:         log.WithEntryName("AuthService"),
		err:         errorc.NewErrorBuilder("AuthService"),
	}
}

// VerifyLogin 邮箱与密码都精确匹配时返回用户，否则返回 nil
func (s *AuthService) VerifyLogin(ctx context.Context, email, password string) (*model.User, error) {
	return s.dao.FindByEmailAndPassword(ctx, email, password)
}

func (s *AuthService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.dao.ExistsByEmail(ctx, email)
}

func (s *AuthService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.dao.ExistsByUsername(ctx, username)
}

// Login 校验凭证并签发令牌
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginDTO, error) {
	user, err := s.VerifyLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, s.err.New("邮箱或密码错误", nil).NoAuth()
	}

	claims := &security.UserClaims{ID: user.ID, Username: user.Username}
	if _, ok := s.adminEmails[strings.ToLower(user.Email)]; ok {
		claims.Permissions = append(claims.Permissions, security.MarketAdmin)
	}
	token, expiresAt, err := s.auth.CreateToken(claims)
	if err != nil {
		return nil, s.err.New("签发令牌失败", err).WithCode(errorc.ErrorCodeInternal)
	}

	s.log.WithTrace(ctx).WithUserID(user.ID).Info("用户登录")
	return &dto.LoginDTO{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

// Register 邮箱或用户名已被占用时返回 Conflict
func (s *AuthService) Register(ctx context.Context, req *reqdto.RegisterReq) (*model.User, error) {
	exists, err := s.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, s.err.New("邮箱已被注册", nil).Conflict()
	}
	exists, err = s.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, s.err.New("用户名已被占用", nil).Conflict()
	}

	user := &model.User{
		Email:    req.Email,
		Password: req.Password,
		Username: strings.TrimSpace(req.Username),
		Name:     req.Name,
		Surname:  req.Surname,
		Address:  req.Address,
	}
	if err := s.dao.Create(ctx, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Profile 当前用户资料，不含密码；令牌中的用户已被删除时返回 NotFound
func (s *AuthService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.dao.FindById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, s.err.New("用户不存在", nil).NotFound()
	}
	return user.Public(), nil
}
