package otp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kaamdham/infras/otel/mocks"
	cacheMocks "kaamdham/shared/cache/mocks"
	"kaamdham/shared/failure"
	"kaamdham/shared/otp"
)

func TestGenerateCode(t *testing.T) {
	for _, digits := range []int{4, 6} {
		code, err := otp.GenerateCode(digits)
		assert.NoError(t, err)
		assert.Len(t, code, digits)

		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestManager_Issue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	manager := otp.NewManager(mockCache, mocks.NewOtel())

	t.Run("stores code under purpose key", func(t *testing.T) {
		mockCache.EXPECT().
			Save(gomock.Any(), "otp:login:9876543210", gomock.Any(), 300).
			Return(nil)

		code, err := manager.Issue(context.Background(), otp.PurposeLogin, "9876543210", 6, 300)
		assert.NoError(t, err)
		assert.Len(t, code, 6)
	})

	t.Run("store error", func(t *testing.T) {
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("redis down"))

		_, err := manager.Issue(context.Background(), otp.PurposeLogin, "9876543210", 6, 300)
		assert.Error(t, err)
	})
}

func TestManager_Verify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	manager := otp.NewManager(mockCache, mocks.NewOtel())

	t.Run("matching code is consumed", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), "otp:engagement:booking-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*(value.(*string)) = "1234"
				return nil
			})
		mockCache.EXPECT().
			Delete(gomock.Any(), "otp:engagement:booking-1").
			Return(nil)

		err := manager.Verify(context.Background(), otp.PurposeEngagement, "booking-1", "1234")
		assert.NoError(t, err)
	})

	t.Run("wrong code", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*(value.(*string)) = "1234"
				return nil
			})

		err := manager.Verify(context.Background(), otp.PurposeEngagement, "booking-1", "9999")
		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})

	t.Run("expired code", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		err := manager.Verify(context.Background(), otp.PurposeEngagement, "booking-1", "1234")
		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})
}
