package entity

import (
	"strings"
	"time"
)

// User представляет пользователя в системе.
// Создается при первом запросе кода входа, этой подсистемой не удаляется.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// NormalizeEmail приводит email к каноническому виду: без пробелов по краям, в нижнем регистре
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DisplayName возвращает имя пользователя или "User", если имя пустое
func (u *User) DisplayName() string {
	if u == nil || strings.TrimSpace(u.Name) == "" {
		return DefaultUserName
	}
	return u.Name
}

// DefaultUserName используется, когда имя не удалось определить
const DefaultUserName = "User"
