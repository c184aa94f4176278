package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/pkg/events"
)

const (
	timeLayout = time.RFC3339
	dateLayout = "2006-01-02"

	// publishTimeout 单次事件发布的上限，超时只记录日志
	publishTimeout = 200 * time.Millisecond
)

// validID 主键均为 UUID；格式错误的 ID 视为不存在，避免数据库类型错误
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// trimmedOrNil 去除首尾空白，空串返回 nil
func trimmedOrNil(s *string) *string {
	if isBlank(s) {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// publishEvent 事务提交后发布事件；失败只记录日志，不影响请求结果
func publishEvent(ctx context.Context, pub events.Publisher, logger *zap.Logger, evt events.Event) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := pub.Publish(ctx, evt); err != nil {
		logger.Warn("发布事件失败",
			zap.String("type", evt.Type),
			zap.String("key", evt.Key),
			zap.Error(err),
		)
	}
}

// ── 模型 → DTO ──

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    u.UserID,
		Email: u.Email,
		Role:  u.Role.String(),
	}
}

func toInternResponse(i *model.Intern) dto.InternResponse {
	resp := dto.InternResponse{
		ID:              i.InternID,
		UserID:          i.UserID,
		Name:            i.Name,
		Phone:           i.Phone,
		ReferringSource: i.ReferringSource,
		CreatedAt:       formatTime(i.CreatedAt),
	}
	if i.User != nil {
		resp.Email = i.User.Email
	}
	return resp
}

func toAssignmentResponse(it *model.InternTask) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:         it.InternTaskID,
		InternID:   it.InternID,
		TaskID:     it.TaskID,
		AssignedAt: formatTime(it.AssignedAt),
	}
}

func toSubmissionResponse(s *model.Submission) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:             s.SubmissionID,
		InternTaskID:   s.InternTaskID,
		Attempt:        s.Attempt,
		SubmissionLink: s.SubmissionLink,
		Comments:       s.Comments,
		Status:         string(s.Status),
		Feedback:       s.Feedback,
		SubmittedAt:    formatTime(s.SubmittedAt),
		ReviewedAt:     formatTimePtr(s.ReviewedAt),
		ReviewedBy:     s.ReviewedBy,
	}
	if it := s.InternTask; it != nil {
		resp.InternID = it.InternID
		resp.TaskID = it.TaskID
		if it.Intern != nil {
			resp.InternName = it.Intern.Name
		}
		if it.Task != nil {
			resp.TaskTitle = it.Task.Title
		}
	}
	return resp
}

func toSubmissionResponses(subs []model.Submission) []dto.SubmissionResponse {
	result := make([]dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		result = append(result, toSubmissionResponse(&subs[i]))
	}
	return result
}
