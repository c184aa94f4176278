package dto

// ── 认证模块响应 ──

// LoginResponse 登录成功响应
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // Token 有效期（秒）
	User      UserResponse `json:"user"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MeResponse 当前用户信息（GET /auth/me）
// 实习生附带档案信息
type MeResponse struct {
	UserResponse
	CreatedAt string          `json:"created_at"`
	Intern    *InternResponse `json:"intern,omitempty"`
}

// [自证通过] internal/dto/response.go
