package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HabitPulse/internal/model/dto"
	"HabitPulse/pkg/response"
	"HabitPulse/pkg/token"
)

// IssueToken 签发令牌对
// POST /v1/auth/token
func IssueToken(ctx context.Context, c *app.RequestContext) {
	var req dto.IssueTokenRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(req.UserID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// RefreshToken 刷新访问令牌
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	userID, err := token.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}
