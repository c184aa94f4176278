package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/repository"
)

// DashboardService 统计面板业务接口（只读）
type DashboardService interface {
	AdminStats(ctx context.Context) (*dto.AdminDashboardResponse, error)
	// InternStats 基于每个分配的最近一次提交汇总
	InternStats(ctx context.Context, userID string) (*dto.InternDashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, now: time.Now, logger: logger}
}

func (s *dashboardService) AdminStats(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	interns, err := s.repo.Intern.Count(ctx)
	if err != nil {
		s.logger.Error("统计实习生失败", zap.Error(err))
		return nil, err
	}
	tasks, err := s.repo.Task.Count(ctx)
	if err != nil {
		s.logger.Error("统计任务失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.InternTask.Count(ctx)
	if err != nil {
		s.logger.Error("统计分配失败", zap.Error(err))
		return nil, err
	}
	byStatus, err := s.repo.Submission.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("统计提交失败", zap.Error(err))
		return nil, err
	}

	counts := dto.SubmissionCounts{
		PendingReview: byStatus[model.SubmissionPendingReview],
		Approved:      byStatus[model.SubmissionApproved],
		Denied:        byStatus[model.SubmissionDenied],
	}
	counts.Total = counts.PendingReview + counts.Approved + counts.Denied

	return &dto.AdminDashboardResponse{
		Interns:     interns,
		Tasks:       tasks,
		Assignments: assignments,
		Submissions: counts,
	}, nil
}

func (s *dashboardService) InternStats(ctx context.Context, userID string) (*dto.InternDashboardResponse, error) {
	intern, err := resolveIntern(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.InternTask.ListWithStatusByIntern(ctx, intern.InternID)
	if err != nil {
		s.logger.Error("列出实习生任务失败", zap.String("intern_id", intern.InternID), zap.Error(err))
		return nil, err
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := &dto.InternDashboardResponse{Assigned: len(rows)}
	for _, row := range rows {
		approved := false
		if row.LatestSubmissionStatus == nil {
			stats.NotStarted++
		} else {
			switch *row.LatestSubmissionStatus {
			case model.SubmissionPendingReview:
				stats.PendingReview++
			case model.SubmissionApproved:
				stats.Approved++
				approved = true
			case model.SubmissionDenied:
				stats.Denied++
			}
		}

		// 截止日期早于今天且最近一次提交未通过
		if row.DueDate != nil && !approved && row.DueDate.Before(today) {
			stats.Overdue++
		}
	}
	return stats, nil
}
