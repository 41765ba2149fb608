// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq は/registerエンドポイントのリクエストボディを表します。
// Ginのbindingタグでバリデーション（必須項目、メール形式、パスワード長）を行います。
type RegisterReq struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	Phone         string `json:"phone"`
	AcceptTerms   bool   `json:"acceptTerms"`
	AcceptPrivacy bool   `json:"acceptPrivacy"`
	Marketing     bool   `json:"marketing"`
}

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileReq は/user/profileエンドポイントのリクエストボディを表します。
type UpdateProfileReq struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
	// Password は省略時は変更なし。
	Password string `json:"password" binding:"omitempty,min=8"`
}

// ProfileResponse は自分のアカウント情報のレスポンスを表します。
type ProfileResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}
