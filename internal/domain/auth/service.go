package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	LoginWithAccessKey(ctx context.Context, req AccessKeyLoginRequest) (LoginResponse, error)
	Me(ctx context.Context, userID string) (UserSummary, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (UserSummary, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}
