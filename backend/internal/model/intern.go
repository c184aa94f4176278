package model

import "time"

// Intern 实习生档案表 — 对应 interns
// 每个 Intern 与一个 role=intern 的 User 一一对应，二者在同一事务中创建
type Intern struct {
	InternID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"intern_id"`
	UserID          string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	Name            string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Phone           *string   `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	ReferringSource *string   `gorm:"type:varchar(100)"                              json:"referring_source,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Intern) TableName() string { return "interns" }
