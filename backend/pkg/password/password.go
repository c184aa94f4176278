package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch 密码不匹配
var ErrMismatch = errors.New("密码不匹配")

// Hasher bcrypt 密码哈希器，cost 可配置（默认 10）
type Hasher struct {
	cost int
}

// NewHasher 创建 Hasher；cost 非法时回退到 bcrypt.DefaultCost
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash 生成带盐哈希
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare 校验明文与哈希是否匹配
func (h *Hasher) Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}
