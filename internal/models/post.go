package models

import "time"

// Post belongs to a User through UserID. Posts are immutable once created
// and are removed only when their owner is deleted.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Category   string    `gorm:"index" json:"category"`
	Phone      string    `json:"phone"`
	Profession string    `json:"profession"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
