package user

import "time"

type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}
