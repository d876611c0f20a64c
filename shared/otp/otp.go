package otp

//go:generate go run go.uber.org/mock/mockgen -source=./otp.go -destination=./mocks/otp_mock.go -package=mocks

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog/log"

	"kaamdham/infras/otel"
	"kaamdham/shared/cache"
	"kaamdham/shared/failure"
)

const (
	otelScopeName = "otp"

	PurposeLogin      = "login"
	PurposeEngagement = "engagement"

	keyPrefix = "otp"
)

// Manager issues and verifies the one-time codes the platform depends on:
// login codes sent to phones and the shorter codes exchanged in person when
// work starts or finishes.
type Manager interface {
	Issue(ctx context.Context, purpose, subject string, digits, ttlSeconds int) (code string, err error)
	Verify(ctx context.Context, purpose, subject, code string) (err error)
}

type managerImpl struct {
	cache cache.RedisCache
	otel  otel.Otel
}

func NewManager(redisCache cache.RedisCache, ot otel.Otel) Manager {
	return &managerImpl{
		cache: redisCache,
		otel:  ot,
	}
}

// GenerateCode returns a zero-padded numeric code of the given length.
func GenerateCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}

func buildKey(purpose, subject string) string {
	return strings.Join([]string{keyPrefix, purpose, subject}, ":")
}

// Issue implements Manager.
func (m *managerImpl) Issue(ctx context.Context, purpose, subject string, digits, ttlSeconds int) (code string, err error) {
	ctx, scope := m.otel.NewScope(ctx, otelScopeName, otelScopeName+".Issue")
	defer scope.End()
	defer scope.TraceIfError(err)

	code, err = GenerateCode(digits)
	if err != nil {
		log.Error().Err(err).Str("purpose", purpose).Msg("Failed to generate OTP")

		return "", err
	}

	if err = m.cache.Save(ctx, buildKey(purpose, subject), code, ttlSeconds); err != nil {
		log.Error().Err(err).Str("purpose", purpose).Msg("Failed to store OTP")

		return "", fmt.Errorf("storing otp: %w", err)
	}

	return code, nil
}

// Verify implements Manager. A matching code is consumed so it can only be
// used once.
func (m *managerImpl) Verify(ctx context.Context, purpose, subject, code string) (err error) {
	ctx, scope := m.otel.NewScope(ctx, otelScopeName, otelScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(err)

	key := buildKey(purpose, subject)

	var stored string
	if err = m.cache.Get(ctx, key, &stored); err != nil {
		log.Warn().Err(err).Str("purpose", purpose).Msg("OTP expired or never issued")

		return failure.Unauthorized("OTP expired or invalid") // nolint:wrapcheck
	}

	if stored != code {
		return failure.Unauthorized("OTP expired or invalid") // nolint:wrapcheck
	}

	if err = m.cache.Delete(ctx, key); err != nil {
		log.Error().Err(err).Str("purpose", purpose).Msg("Failed to consume OTP")

		return fmt.Errorf("consuming otp: %w", err)
	}

	return nil
}
