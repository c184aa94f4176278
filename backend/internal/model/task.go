package model

import "time"

// Task 任务表 — 对应 tasks
// 创建后不可修改
type Task struct {
	TaskID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Title       string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description *string    `gorm:"type:text"                                      json:"description,omitempty"`
	DueDate     *time.Time `gorm:"type:date"                                      json:"due_date,omitempty"`
	AssignedBy  string     `gorm:"type:uuid;not null"                             json:"assigned_by"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
