package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kaamdham/shared/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("admin-secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.NoError(t, password.Verify("admin-secret", hash))
	assert.ErrorIs(t, password.Verify("wrong", hash), password.ErrInvalidPassword)
}

func TestHashEmptyPassword(t *testing.T) {
	_, err := password.Hash("")
	assert.Error(t, err)
}

func TestVerifyEmptyInputs(t *testing.T) {
	assert.ErrorIs(t, password.Verify("", "hash"), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("secret", ""), password.ErrInvalidPassword)
}
