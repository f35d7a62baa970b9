package model

import "time"

// User is an administrative account of the point-of-sale product.
// PasswordHash never leaves the backend.
type User struct {
	ID           int       `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AuthType     string    `json:"authType"`
	Image        *AssetRef `json:"image"`
	State        int       `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
}
