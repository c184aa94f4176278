package dto

// ── 实习生模块 DTO ──

// CreateInternRequest 创建实习生请求（同时创建登录账号）
type CreateInternRequest struct {
	Name            string  `json:"name"             binding:"required,max=100"`
	Email           string  `json:"email"            binding:"required,email,max=255"`
	Password        string  `json:"password"         binding:"required,min=8,max=72"`
	Phone           *string `json:"phone"            binding:"omitempty,max=30"`
	ReferringSource *string `json:"referring_source" binding:"omitempty,max=100"`
}

// InternResponse 实习生档案响应
type InternResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Name            string  `json:"name"`
	Email           string  `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	ReferringSource *string `json:"referring_source,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// CreateInternResponse 创建实习生响应
type CreateInternResponse struct {
	Intern InternResponse `json:"intern"`
	User   UserResponse   `json:"user"`
}
