package model

import "time"

// SubmissionStatus 提交状态
//
// 状态机：Pending Review → Approved（终态）
//
//	Pending Review → Denied（可针对同一分配重新提交）
type SubmissionStatus string

const (
	SubmissionPendingReview SubmissionStatus = "Pending Review"
	SubmissionApproved      SubmissionStatus = "Approved"
	SubmissionDenied        SubmissionStatus = "Denied"

	// StatusNotStarted 仅用于列表投影：分配下尚无任何提交
	StatusNotStarted = "Not Started"
)

// Valid 是否为已知状态
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPendingReview, SubmissionApproved, SubmissionDenied:
		return true
	default:
		return false
	}
}

// IsReviewDecision 是否为合法的审核结论
func (s SubmissionStatus) IsReviewDecision() bool {
	return s == SubmissionApproved || s == SubmissionDenied
}

// Submission 提交表 — 对应 submissions
// Attempt 为同一分配下的第几次提交（从 1 开始，唯一）
type Submission struct {
	SubmissionID   string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	InternTaskID   string           `gorm:"type:uuid;not null;index"                       json:"intern_task_id"`
	Attempt        int              `gorm:"not null"                                       json:"attempt"`
	SubmissionLink string           `gorm:"type:text;not null"                             json:"submission_link"`
	Comments       *string          `gorm:"type:text"                                      json:"comments,omitempty"`
	Status         SubmissionStatus `gorm:"type:varchar(20);not null;default:'Pending Review'" json:"status"`
	Feedback       *string          `gorm:"type:text"                                      json:"feedback,omitempty"`
	SubmittedAt    time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedBy     *string          `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`

	// 关联
	InternTask *InternTask `gorm:"foreignKey:InternTaskID;references:InternTaskID" json:"intern_task,omitempty"`
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }
