package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"kaamdham/config"
	"kaamdham/infras/jwt"
	"kaamdham/infras/otel"
	"kaamdham/infras/sms"
	"kaamdham/internal/domains/auth/model/dto"
	userModel "kaamdham/internal/domains/user/model"
	userRepo "kaamdham/internal/domains/user/repository"
	"kaamdham/shared"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/failure"
	"kaamdham/shared/otp"
	"kaamdham/shared/password"
	"kaamdham/shared/timezone"
)

type Auth interface {
	RequestOTP(ctx context.Context, req dto.RequestOTPRequest) error
	VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (dto.LoginResponse, error)
	AdminLogin(ctx context.Context, req dto.AdminLoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
	otpManager otp.Manager
	smsSender  sms.Sender
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT, otpManager otp.Manager, smsSender sms.Sender) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
		otpManager: otpManager,
		smsSender:  smsSender,
	}
}

// loginSubject scopes OTP storage so a user and a freelancer sharing a phone
// number get independent codes.
func loginSubject(role, phone string) string {
	return role + ":" + phone
}

func phoneRoleFilter(phone, role string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldPhone,
				Operator: gDto.FilterOperatorEq,
				Value:    phone,
				Table:    userModel.TableName,
			},
			gDto.Filter{
				Field:    userModel.FieldRole,
				Operator: gDto.FilterOperatorEq,
				Value:    role,
				Table:    userModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) RequestOTP(ctx context.Context, req dto.RequestOTPRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RequestOTP")
	defer scope.End()
	defer scope.TraceIfError(err)

	code, err := s.otpManager.Issue(ctx, otp.PurposeLogin, loginSubject(req.Role, req.Phone), constant.LoginOTPDigits, s.cfg.OTP.LoginTTLSeconds)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue login OTP")

		return fmt.Errorf("failed to issue login OTP: %w", err)
	}

	message := fmt.Sprintf("Your %s login code is %s", s.cfg.App.Name, code)
	if err = s.smsSender.Send(ctx, req.Phone, message); err != nil {
		log.Error().Err(err).Msg("failed to send login OTP")

		return fmt.Errorf("failed to send login OTP: %w", err)
	}

	return nil
}

func (s *serviceImpl) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifyOTP")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.otpManager.Verify(ctx, otp.PurposeLogin, loginSubject(req.Role, req.Phone), req.OTP); err != nil {
		log.Warn().Str("phone", req.Phone).Msg("login attempt with invalid OTP")

		return res, err // nolint:wrapcheck
	}

	filter := phoneRoleFilter(req.Phone, req.Role)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	// First login creates the account.
	if user.ID == constant.Empty {
		user = req.ToUserModel()

		if err = s.userRepo.Insert(ctx, user); err != nil {
			log.Error().Err(err).Msg("failed to create user")

			return res, fmt.Errorf("failed to create user: %w", err)
		}
	}

	if !user.Active {
		return res, failure.Forbidden("user account is deactivated") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Phone, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	updatedFields := shared.TransformFields(lastLogin, user.ID)

	if err = s.userRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	res.FromTokenPair(tokenPair, user)

	return res, nil
}

func (s *serviceImpl) AdminLogin(ctx context.Context, req dto.AdminLoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminLogin")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Email,
				Table:    userModel.TableName,
			},
			gDto.Filter{
				Field:    userModel.FieldRole,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.RoleAdmin,
				Table:    userModel.TableName,
			},
		},
	}

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Warn().Str("email", req.Email).Msg("admin login attempt failed")

		return res, failure.BadRequestFromString("invalid email or password") // nolint:wrapcheck
	}

	if user.ID == constant.Empty || user.Password == nil {
		return res, failure.BadRequestFromString("invalid email or password") // nolint:wrapcheck
	}

	if err = password.Verify(req.Password, *user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("admin login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password") // nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.Forbidden("user account is deactivated") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Phone, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair, user)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}
