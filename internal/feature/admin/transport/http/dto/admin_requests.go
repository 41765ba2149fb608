// Package dto defines the request and response payloads for the admin API.
package dto

import "time"

// SetRoleReq は既存アカウントのロール変更リクエストです。
type SetRoleReq struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// CreateStaffReq はクーリエ/サービス要員アカウントの作成リクエストです。
type CreateStaffReq struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"required"`
}

// UserResponse is one account in the admin user listing. The password hash
// never leaves the server.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}
