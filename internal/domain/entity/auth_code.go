package entity

import "time"

// AuthCode хранит хеш одноразового кода входа.
// На каждую выдачу кода создается новая строка; прежние коды не инвалидируются.
// Время хранится в секундах Unix.
type AuthCode struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Email      string `gorm:"size:254;not null;index:idx_auth_codes_lookup,priority:1" json:"email"`
	CodeHash   string `gorm:"size:64;not null;index:idx_auth_codes_lookup,priority:2" json:"-"`
	ExpiresAt  int64  `gorm:"not null;index" json:"expires_at"`
	CreatedAt  int64  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	ConsumedAt *int64 `gorm:"index" json:"consumed_at,omitempty"`
}

func (AuthCode) TableName() string {
	return "auth_codes"
}

func (a *AuthCode) IsConsumed() bool {
	return a.ConsumedAt != nil
}

// IsExpired сообщает, истек ли код к моменту now.
// Код с expires_at == now еще действителен.
func (a *AuthCode) IsExpired(now time.Time) bool {
	return a.ExpiresAt < now.Unix()
}
