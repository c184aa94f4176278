package repository

import (
	"context"

	"gorm.io/gorm"

	"uruti-hub/backend/internal/model"
)

// InternRepository 实习生档案数据访问接口
type InternRepository interface {
	Create(ctx context.Context, intern *model.Intern) error
	GetByID(ctx context.Context, id string) (*model.Intern, error)
	GetByUserID(ctx context.Context, userID string) (*model.Intern, error)
	List(ctx context.Context) ([]model.Intern, error)
	Count(ctx context.Context) (int64, error)
}

type internRepo struct {
	db *gorm.DB
}

// NewInternRepo 创建 InternRepository 实例
func NewInternRepo(db *gorm.DB) InternRepository {
	return &internRepo{db: db}
}

func (r *internRepo) Create(ctx context.Context, intern *model.Intern) error {
	return r.db.WithContext(ctx).Create(intern).Error
}

func (r *internRepo) GetByID(ctx context.Context, id string) (*model.Intern, error) {
	var intern model.Intern
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("intern_id = ?", id).
		First(&intern).Error
	if err != nil {
		return nil, err
	}
	return &intern, nil
}

func (r *internRepo) GetByUserID(ctx context.Context, userID string) (*model.Intern, error) {
	var intern model.Intern
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&intern).Error
	if err != nil {
		return nil, err
	}
	return &intern, nil
}

func (r *internRepo) List(ctx context.Context) ([]model.Intern, error) {
	var interns []model.Intern
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&interns).Error
	return interns, err
}

func (r *internRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Intern{}).Count(&n).Error
	return n, err
}
