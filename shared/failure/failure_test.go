package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"kaamdham/shared/failure"
)

func TestFailureCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"bad request", failure.BadRequestFromString("nope"), http.StatusBadRequest},
		{"unauthorized", failure.Unauthorized("nope"), http.StatusUnauthorized},
		{"not found", failure.NotFound("booking not found"), http.StatusNotFound},
		{"conflict", failure.Conflict("already confirmed"), http.StatusConflict},
		{"forbidden", failure.Forbidden("nope"), http.StatusForbidden},
		{"support contact", failure.SupportContact("contact support to cancel"), http.StatusConflict},
		{"date guard", failure.DateGuard("come back later", "2026-09-01"), http.StatusUnprocessableEntity},
		{"internal", failure.InternalError(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
		})
	}
}

func TestSupportContactMarker(t *testing.T) {
	err := failure.SupportContact("cancellation after confirmation requires support")

	assert.True(t, failure.IsSupportContact(err))
	assert.False(t, failure.IsSupportContact(failure.Conflict("plain conflict")))
	assert.False(t, failure.IsSupportContact(errors.New("boom")))
}

func TestSupportContactSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("cancel booking: %w", failure.SupportContact("contact support"))

	assert.True(t, failure.IsSupportContact(err))
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestDateGuardCarriesDate(t *testing.T) {
	err := failure.DateGuard("job starts later", "2026-09-15")

	assert.Equal(t, "2026-09-15", failure.GetRetryOn(err))
	assert.Equal(t, "", failure.GetRetryOn(errors.New("boom")))
}

func TestBadRequestNilPassthrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}
