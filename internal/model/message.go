package model

import "time"

// Message 联系表单留言（contacts 表）
type Message struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);not null" json:"email"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IPAddress  string    `gorm:"type:varchar(64)" json:"ip_address"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	CreatedAt  time.Time `gorm:"not null;index:idx_contacts_created_at" json:"created_at"`
	ReadStatus bool      `gorm:"not null;default:false;index:idx_contacts_read_status" json:"read_status"`
}

// TableName 指定表名
func (Message) TableName() string { return "contacts" }

// MessagePage 分页结果
type MessagePage struct {
	Messages      []*Message `json:"messages"`
	CurrentPage   int        `json:"currentPage"`
	TotalPages    int        `json:"totalPages"`
	TotalMessages int64      `json:"totalMessages"`
}

// MessageStats 留言统计
type MessageStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
	Today  int64 `json:"today"`
	Week   int64 `json:"week"`
}
