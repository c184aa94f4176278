package dto

// ── 提交与审核模块 DTO ──

// SubmitRequest 提交作业请求
type SubmitRequest struct {
	SubmissionLink string  `json:"submission_link"`
	Comments       *string `json:"comments"`
}

// ReviewRequest 审核请求（驳回时 feedback 必填）
type ReviewRequest struct {
	Feedback *string `json:"feedback"`
}

// SubmissionResponse 提交响应
type SubmissionResponse struct {
	ID             string  `json:"id"`
	InternTaskID   string  `json:"intern_task_id"`
	Attempt        int     `json:"attempt"`
	SubmissionLink string  `json:"submission_link"`
	Comments       *string `json:"comments,omitempty"`
	Status         string  `json:"status"`
	Feedback       *string `json:"feedback,omitempty"`
	SubmittedAt    string  `json:"submitted_at"`
	ReviewedAt     *string `json:"reviewed_at,omitempty"`
	ReviewedBy     *string `json:"reviewed_by,omitempty"`

	// 关联信息（预加载时填充）
	InternID   string `json:"intern_id,omitempty"`
	InternName string `json:"intern_name,omitempty"`
	TaskID     string `json:"task_id,omitempty"`
	TaskTitle  string `json:"task_title,omitempty"`
}

// MyTaskResponse 实习生任务列表项：分配 + 任务 + 最近一次提交状态
type MyTaskResponse struct {
	InternTaskID       string  `json:"intern_task_id"`
	TaskID             string  `json:"task_id"`
	Title              string  `json:"title"`
	Description        *string `json:"description,omitempty"`
	DueDate            *string `json:"due_date,omitempty"`
	AssignedAt         string  `json:"assigned_at"`
	Status             string  `json:"status"`
	LatestSubmissionID *string `json:"latest_submission_id,omitempty"`
	LatestAttempt      *int    `json:"latest_attempt,omitempty"`
	LatestSubmittedAt  *string `json:"latest_submitted_at,omitempty"`
}
