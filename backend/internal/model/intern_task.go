package model

import "time"

// InternTask 任务分配表 — 对应 intern_tasks
// (intern_id, task_id) 由唯一索引保证至多一条
type InternTask struct {
	InternTaskID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"intern_task_id"`
	InternID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_intern_tasks_intern_task" json:"intern_id"`
	TaskID       string    `gorm:"type:uuid;not null;uniqueIndex:uq_intern_tasks_intern_task" json:"task_id"`
	AssignedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"assigned_at"`

	// 关联
	Intern *Intern `gorm:"foreignKey:InternID;references:InternID" json:"intern,omitempty"`
	Task   *Task   `gorm:"foreignKey:TaskID;references:TaskID"     json:"task,omitempty"`
}

// TableName 指定表名
func (InternTask) TableName() string { return "intern_tasks" }

// AssignmentWithStatus 分配 + 任务 + 最近一次提交状态（只读投影）
type AssignmentWithStatus struct {
	InternTaskID           string
	InternID               string
	TaskID                 string
	AssignedAt             time.Time
	Title                  string
	Description            *string
	DueDate                *time.Time
	LatestSubmissionID     *string
	LatestSubmissionStatus *SubmissionStatus
	LatestSubmittedAt      *time.Time
	LatestAttempt          *int
}
