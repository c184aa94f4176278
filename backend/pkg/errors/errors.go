package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation PostgreSQL unique_violation 错误码
const pgUniqueViolation = "23505"

// ErrDuplicate 唯一约束冲突（由存储层保证）
var ErrDuplicate = errors.New("记录已存在")

// IsUniqueViolation 判断错误是否为唯一约束冲突
// 兼容 gorm TranslateError 后的 ErrDuplicatedKey 与驱动原始的 PgError
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
