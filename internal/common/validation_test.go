package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_CollectsAllErrors(t *testing.T) {
	long := "abcdefghijk"
	v := NewValidator().
		Field("name", "  ", Required).
		Field("notes", &long, MaxLength(5)).
		Field("amount", -1.0, NonNegative).
		Field("gstin", "not-a-gstin", GSTIN)

	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 4)

	err := v.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, 400, HTTPStatus(err))
	assert.Contains(t, PublicMessage(err), "name is required")
}

func TestGSTIN(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"27AAPFU0939F1ZV", true},
		{"27aapfu0939f1zv", true},
		{"", true},
		{"27AAPFU0939F1Z", false},
		{"XXAAPFU0939F1ZV", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.ok, GSTIN("gstin", tt.in) == nil)
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewAppError("X", "bad type", ErrUnsupportedFormat), 400},
		{Unauthorized("session expired"), 401},
		{NewAppError("QUOTA", "limit", ErrQuotaExceeded), 403},
		{NotFound("bill"), 404},
		{WrapError(ErrNotImplemented, "csv"), 501},
		{WrapError(ErrUpstreamUnavailable, "razorpay"), 503},
		{errors.New("boom"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: secret detail")))
}
