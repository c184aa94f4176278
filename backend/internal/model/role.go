package model

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleIntern Role = "intern"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleIntern:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
