package dto

// ── 任务分配模块 DTO ──

// CreateAssignmentRequest 批量分配请求：一个任务分配给多名实习生
type CreateAssignmentRequest struct {
	TaskID    string   `json:"task_id"    binding:"required"`
	InternIDs []string `json:"intern_ids"`
}

// AssignmentResponse 分配记录响应
type AssignmentResponse struct {
	ID         string `json:"id"`
	InternID   string `json:"intern_id"`
	TaskID     string `json:"task_id"`
	AssignedAt string `json:"assigned_at"`
}

// AssignError 单个实习生的分配失败原因
type AssignError struct {
	InternID string `json:"intern_id"`
	Message  string `json:"message"`
}

// AssignResult 批量分配结果（允许部分成功）
type AssignResult struct {
	Assignments []AssignmentResponse `json:"assignments"`
	Errors      []AssignError        `json:"errors,omitempty"`
}
