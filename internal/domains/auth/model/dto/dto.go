package dto

import (
	"time"

	"github.com/google/uuid"

	"kaamdham/infras/jwt"
	userModel "kaamdham/internal/domains/user/model"
	gModel "kaamdham/shared/model"
	"kaamdham/shared/timezone"
)

type RequestOTPRequest struct {
	Phone string `json:"phone" validate:"required,numeric,len=10"`
	Role  string `json:"role"  validate:"required,oneof=user freelancer"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,numeric,len=10"`
	Role  string `json:"role"  validate:"required,oneof=user freelancer"`
	OTP   string `json:"otp"   validate:"required,numeric,len=6"`
}

func (r *VerifyOTPRequest) ToUserModel() userModel.User {
	return userModel.User{
		ID:     uuid.NewString(),
		Phone:  r.Phone,
		Role:   r.Role,
		Latest: false,
		Active: true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  r.Phone,
			ModifiedBy: r.Phone,
		},
	}
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Latest       bool   `json:"latest"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair, user userModel.User) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
	l.Latest = user.Latest
	l.UserID = user.ID
	l.Role = user.Role
}

type AdminLoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}
