package entity

import "time"

// Session связывает непрозрачный идентификатор из куки sid с email пользователя.
// Продления и ротации нет: сессия живет до expires_at или до выхода.
type Session struct {
	SessionID string `gorm:"primaryKey;size:64" json:"-"`
	Email     string `gorm:"size:254;not null;index" json:"email"`
	ExpiresAt int64  `gorm:"not null;index" json:"expires_at"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false" json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// IsExpired сообщает, истекла ли сессия к моменту now.
func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpiresAt < now.Unix()
}
