package dto

// ── 统计面板 DTO ──

// AdminDashboardResponse 管理员统计
type AdminDashboardResponse struct {
	Interns     int64            `json:"interns"`
	Tasks       int64            `json:"tasks"`
	Assignments int64            `json:"assignments"`
	Submissions SubmissionCounts `json:"submissions"`
}

// SubmissionCounts 按状态统计的提交数
type SubmissionCounts struct {
	PendingReview int64 `json:"pending_review"`
	Approved      int64 `json:"approved"`
	Denied        int64 `json:"denied"`
	Total         int64 `json:"total"`
}

// InternDashboardResponse 实习生统计，基于每个分配的最近一次提交
type InternDashboardResponse struct {
	Assigned      int `json:"assigned"`
	NotStarted    int `json:"not_started"`
	PendingReview int `json:"pending_review"`
	Approved      int `json:"approved"`
	Denied        int `json:"denied"`
	Overdue       int `json:"overdue"`
}
