package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uruti-hub/backend/config"
	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/repository"
	"uruti-hub/backend/pkg/password"
)

// ── 实习生模块业务错误 ──

var (
	ErrInternNotFound     = errors.New("实习生档案不存在")
	ErrInternNameRequired = errors.New("实习生姓名不能为空")
)

// InternService 实习生业务接口
type InternService interface {
	// Create 在同一事务中创建 role=intern 的账号与实习生档案
	Create(ctx context.Context, req *dto.CreateInternRequest) (*dto.CreateInternResponse, error)
	List(ctx context.Context) ([]dto.InternResponse, error)
	// GetMine 当前登录实习生的档案
	GetMine(ctx context.Context, userID string) (*dto.InternResponse, error)
}

type internService struct {
	repo   *repository.Repository
	hasher *password.Hasher
	logger *zap.Logger
}

// NewInternService 创建 InternService 实例
func NewInternService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) InternService {
	return &internService{
		repo:   repo,
		hasher: password.NewHasher(cfg.Auth.BcryptCost),
		logger: logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *internService) Create(ctx context.Context, req *dto.CreateInternRequest) (*dto.CreateInternResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInternNameRequired
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	user, err := createUser(ctx, txRepo, s.hasher, s.logger, req.Email, req.Password, model.RoleIntern)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}

	intern := &model.Intern{
		UserID:          user.UserID,
		Name:            name,
		Phone:           trimmedOrNil(req.Phone),
		ReferringSource: trimmedOrNil(req.ReferringSource),
	}
	if err := txRepo.Intern.Create(ctx, intern); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建实习生档案失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	intern.User = user
	s.logger.Info("实习生已创建",
		zap.String("intern_id", intern.InternID),
		zap.String("user_id", user.UserID),
	)

	return &dto.CreateInternResponse{
		Intern: toInternResponse(intern),
		User:   toUserResponse(user),
	}, nil
}

// ────────────────────── List ──────────────────────

func (s *internService) List(ctx context.Context) ([]dto.InternResponse, error) {
	interns, err := s.repo.Intern.List(ctx)
	if err != nil {
		s.logger.Error("列出实习生失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.InternResponse, 0, len(interns))
	for i := range interns {
		result = append(result, toInternResponse(&interns[i]))
	}
	return result, nil
}

// ────────────────────── GetMine ──────────────────────

func (s *internService) GetMine(ctx context.Context, userID string) (*dto.InternResponse, error) {
	intern, err := resolveIntern(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}
	resp := toInternResponse(intern)
	return &resp, nil
}

// resolveIntern 登录用户 → 实习生档案
func resolveIntern(ctx context.Context, repo *repository.Repository, logger *zap.Logger, userID string) (*model.Intern, error) {
	if !validID(userID) {
		return nil, ErrInternNotFound
	}
	intern, err := repo.Intern.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInternNotFound
		}
		logger.Error("查询实习生档案失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return intern, nil
}
