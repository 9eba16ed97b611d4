package auth

import "context"

// MockJWTService is a function-field test double for JWTService.
// Fields left nil make the corresponding call fail with ErrInvalidToken.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID int64) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID int64) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*Claims, error)
}

var _ JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) GenerateToken(ctx context.Context, userID int64) (string, error) {
	if m.GenerateTokenFn == nil {
		return "", ErrInvalidToken
	}
	return m.GenerateTokenFn(ctx, userID)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFn == nil {
		return nil, ErrInvalidToken
	}
	return m.ValidateTokenFn(ctx, tokenString)
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID int64) (string, error) {
	if m.GenerateRefreshTokenFn == nil {
		return "", ErrInvalidToken
	}
	return m.GenerateRefreshTokenFn(ctx, userID)
}

func (m *MockJWTService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*Claims, error) {
	if m.ValidateRefreshTokenFn == nil {
		return nil, ErrInvalidRefreshToken
	}
	return m.ValidateRefreshTokenFn(ctx, tokenString)
}
