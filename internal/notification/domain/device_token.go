package domain

import "time"

// DeviceToken represents one push-notification registration: a Firebase
// device token bound to a user and the device that registered it.
type DeviceToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_device_tokens_user_token;index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex:idx_device_tokens_user_token;not null"` // Don't expose token in JSON
	Platform  string    `json:"platform"`
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// TokenPreview returns a truncated form of the token safe for listing.
// The full token is only ever handed to the push provider.
func (t DeviceToken) TokenPreview() string {
	if len(t.Token) <= 20 {
		return t.Token + "..."
	}
	return t.Token[:20] + "..."
}
