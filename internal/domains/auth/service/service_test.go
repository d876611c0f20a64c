package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kaamdham/config"
	"kaamdham/infras/jwt"
	jwtMocks "kaamdham/infras/jwt/mocks"
	"kaamdham/infras/otel/mocks"
	smsMocks "kaamdham/infras/sms/mocks"
	"kaamdham/internal/domains/auth/model/dto"
	"kaamdham/internal/domains/auth/service"
	userMocks "kaamdham/internal/domains/user/mocks"
	userModel "kaamdham/internal/domains/user/model"
	"kaamdham/shared/failure"
	otpMocks "kaamdham/shared/otp/mocks"
	"kaamdham/shared/password"
)

type authServiceMocks struct {
	userRepo *userMocks.MockUser
	jwt      *jwtMocks.MockJWT
	otp      *otpMocks.MockManager
	sms      *smsMocks.MockSender
}

func newAuthService(t *testing.T) (service.Auth, authServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := authServiceMocks{
		userRepo: userMocks.NewMockUser(ctrl),
		jwt:      jwtMocks.NewMockJWT(ctrl),
		otp:      otpMocks.NewMockManager(ctrl),
		sms:      smsMocks.NewMockSender(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Name = "KaamDham"
	cfg.OTP.LoginTTLSeconds = 300

	svc := service.New(m.userRepo, cfg, mocks.NewOtel(), m.jwt, m.otp, m.sms)

	return svc, m
}

func activeUser(id, phone, role string) userModel.User {
	return userModel.User{
		ID:     id,
		Phone:  phone,
		Role:   role,
		Latest: true,
		Active: true,
	}
}

func tokenPair() *jwt.TokenPair {
	return &jwt.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}
}

func TestAuthService_RequestOTP(t *testing.T) {
	t.Run("issues a code and sends it by SMS", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.otp.EXPECT().
			Issue(gomock.Any(), "login", "user:9841000001", 6, 300).
			Return("482915", nil)
		m.sms.EXPECT().
			Send(gomock.Any(), "9841000001", "Your KaamDham login code is 482915").
			Return(nil)

		err := svc.RequestOTP(context.Background(), dto.RequestOTPRequest{
			Phone: "9841000001",
			Role:  "user",
		})

		assert.NoError(t, err)
	})

	t.Run("freelancer and user codes are scoped separately", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.otp.EXPECT().
			Issue(gomock.Any(), "login", "freelancer:9841000001", 6, 300).
			Return("110022", nil)
		m.sms.EXPECT().Send(gomock.Any(), "9841000001", gomock.Any()).Return(nil)

		err := svc.RequestOTP(context.Background(), dto.RequestOTPRequest{
			Phone: "9841000001",
			Role:  "freelancer",
		})

		assert.NoError(t, err)
	})

	t.Run("issue failure is propagated", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.otp.EXPECT().
			Issue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("redis unavailable"))

		err := svc.RequestOTP(context.Background(), dto.RequestOTPRequest{
			Phone: "9841000001",
			Role:  "user",
		})

		assert.Error(t, err)
	})
}

func TestAuthService_VerifyOTP(t *testing.T) {
	req := dto.VerifyOTPRequest{
		Phone: "9841000001",
		Role:  "user",
		OTP:   "482915",
	}

	t.Run("existing user logs in", func(t *testing.T) {
		svc, m := newAuthService(t)

		user := activeUser("user-1", req.Phone, req.Role)

		m.otp.EXPECT().
			Verify(gomock.Any(), "login", "user:9841000001", "482915").
			Return(nil)
		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		m.jwt.EXPECT().GenerateTokenPair("user-1", req.Phone, req.Role).Return(tokenPair(), nil)
		m.userRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.VerifyOTP(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "access-token", res.AccessToken)
		assert.Equal(t, "user-1", res.UserID)
		assert.Equal(t, "user", res.Role)
		assert.True(t, res.Latest)
	})

	t.Run("first login creates the account", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.otp.EXPECT().
			Verify(gomock.Any(), "login", "user:9841000001", "482915").
			Return(nil)
		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
		m.userRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.NotEmpty(t, user.ID)
				assert.Equal(t, req.Phone, user.Phone)
				assert.Equal(t, req.Role, user.Role)
				assert.True(t, user.Active)
				assert.False(t, user.Latest)

				return nil
			})
		m.jwt.EXPECT().
			GenerateTokenPair(gomock.Any(), req.Phone, req.Role).
			Return(tokenPair(), nil)
		m.userRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.VerifyOTP(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, res.Latest)
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.otp.EXPECT().
			Verify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(failure.Unauthorized("invalid or expired OTP"))

		_, err := svc.VerifyOTP(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		svc, m := newAuthService(t)

		user := activeUser("user-1", req.Phone, req.Role)
		user.Active = false

		m.otp.EXPECT().
			Verify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		_, err := svc.VerifyOTP(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})
}

func TestAuthService_AdminLogin(t *testing.T) {
	req := dto.AdminLoginRequest{
		Email:    "admin@kaamdham.com",
		Password: "s3cret-admin",
	}

	adminUser := func(t *testing.T) userModel.User {
		t.Helper()

		hash, err := password.Hash(req.Password)
		require.NoError(t, err)

		email := req.Email
		user := activeUser("admin-1", "9841000099", "admin")
		user.Email = &email
		user.Password = &hash

		return user
	}

	t.Run("valid credentials", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(adminUser(t), nil)
		m.jwt.EXPECT().GenerateTokenPair("admin-1", "9841000099", "admin").Return(tokenPair(), nil)

		res, err := svc.AdminLogin(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "admin", res.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(adminUser(t), nil)

		_, err := svc.AdminLogin(context.Background(), dto.AdminLoginRequest{
			Email:    req.Email,
			Password: "wrong-password",
		})

		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, err := svc.AdminLogin(context.Background(), req)

		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("lookup failure does not leak details", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, errors.New("connection reset"))

		_, err := svc.AdminLogin(context.Background(), req)

		assert.EqualError(t, err, "invalid email or password")
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("valid refresh token", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.jwt.EXPECT().RefreshTokens("refresh-token").Return(tokenPair(), nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{
			RefreshToken: "refresh-token",
		})

		require.NoError(t, err)
		assert.Equal(t, "access-token", res.AccessToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.jwt.EXPECT().RefreshTokens("bad-token").Return(nil, errors.New("token is expired"))

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{
			RefreshToken: "bad-token",
		})

		assert.EqualError(t, err, "invalid refresh token")
		assert.Equal(t, 401, failure.GetCode(err))
	})
}
