package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;unique;not null" json:"email"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	ProfileImage string    `gorm:"size:255" json:"profileImage"`
	LastLogin    time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
