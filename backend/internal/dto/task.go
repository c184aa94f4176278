package dto

// ── 任务模块 DTO ──

// CreateTaskRequest 创建任务请求
// due_date 格式 YYYY-MM-DD
type CreateTaskRequest struct {
	Title       string  `json:"title"       binding:"max=200"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	DescriptionHTML string  `json:"description_html,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	AssignedBy      string  `json:"assigned_by"`
	CreatedAt       string  `json:"created_at"`
}
