package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Age       int       `json:"age,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	ScanHistory []ScanEvent `gorm:"foreignKey:UserID" json:"-"`
}
