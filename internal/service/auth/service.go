package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	userData, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueToken(userData, "password")
}

// LoginWithAccessKey implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithAccessKey(ctx context.Context, req auth.AccessKeyLoginRequest) (auth.LoginResponse, error) {
	userData, err := a.EmployeeRepository.GetByEmployeeCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidAccessKey
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by employee code: %w", err)
	}

	if userData.AccessKeyHash == nil {
		return auth.LoginResponse{}, auth.ErrInvalidAccessKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.AccessKeyHash), []byte(req.AccessKey)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidAccessKey
	}

	return a.issueToken(userData, "access_key")
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (auth.UserSummary, error) {
	userData, err := a.EmployeeRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.UserSummary{}, err
	}
	if !userData.IsActive {
		return auth.UserSummary{}, auth.ErrAccountInactive
	}
	return toUserSummary(userData), nil
}

// UpdateProfile implements auth.AuthService.
func (a *AuthServiceImpl) UpdateProfile(ctx context.Context, userID string, req auth.UpdateProfileRequest) (auth.UserSummary, error) {
	userData, err := a.EmployeeRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.UserSummary{}, err
	}

	if req.Email != userData.Email {
		taken, err := a.EmployeeRepository.EmailExists(ctx, req.Email, userData.ID)
		if err != nil {
			return auth.UserSummary{}, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return auth.UserSummary{}, employee.ErrEmailExists
		}
	}

	userData.Name = req.Name
	userData.Email = req.Email
	if err := a.EmployeeRepository.Update(ctx, userData); err != nil {
		return auth.UserSummary{}, fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("Profile updated", "user_id", userData.ID)
	return toUserSummary(userData), nil
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, userID string, req auth.ChangePasswordRequest) error {
	userData, err := a.EmployeeRepository.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrIncorrectPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	userData.PasswordHash = string(hashed)
	if err := a.EmployeeRepository.Update(ctx, userData); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("Password changed", "user_id", userData.ID)
	return nil
}

// issueToken is called only after the credential matched, so an inactive
// account is reported as such instead of as bad credentials.
func (a *AuthServiceImpl) issueToken(userData employee.Employee, method string) (auth.LoginResponse, error) {
	if !userData.IsActive {
		return auth.LoginResponse{}, auth.ErrAccountInactive
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, string(userData.Role))
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("User logged in", "user_id", userData.ID, "method", method)
	return auth.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        toUserSummary(userData),
	}, nil
}

func toUserSummary(e employee.Employee) auth.UserSummary {
	return auth.UserSummary{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Role:         string(e.Role),
		EmployeeCode: e.EmployeeCode,
		Designation:  e.Designation,
	}
}
