package dto

// ========== Auth 相关 DTO ==========

// IssueTokenRequest 签发令牌请求
type IssueTokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// TokenPairResponse 令牌对响应
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// RefreshTokenRequest 刷新 token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
