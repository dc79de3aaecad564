package jwttoken

import (
	"aakseva/internal/platform/middleware"
)

func toMiddlewareClaims(claims *Claims) *middleware.AdminClaims {
	return &middleware.AdminClaims{
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
		JTI:   claims.ID,
	}
}

// JWTServiceAdapter exposes the JWT service through the middleware's
// TokenVerifier interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) Verify(tokenString string) (*middleware.AdminClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return toMiddlewareClaims(claims), nil
}
