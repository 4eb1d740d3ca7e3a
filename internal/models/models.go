package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:80;unique;not null"  json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"size:120;not null"         json:"name"`
	Price       float64 `gorm:"not null"                  json:"price"`
	Description string  `gorm:"type:text;not null"        json:"description"`
}

// CartItem is one unit of one product in a user's cart. Adding the same product twice yields two rows.
type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID    uint    `gorm:"index;not null"            json:"user_id"`
	ProductID uint    `gorm:"index;not null"            json:"product_id"`
	User      User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product   Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Session struct {
	ID        string    `gorm:"primaryKey;size:64"  json:"id"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64     `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && s.ExpiresAt > now.Unix()
}

// CartRow is a cart item joined with the product it points at.
type CartRow struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
}

// Tables lists every model in migration order.
func Tables() []any {
	return []any{&User{}, &Product{}, &CartItem{}, &Session{}}
}
